package reconcile

// Config holds the pipeline settings shared by every command.
type Config struct {
	// Workers is the number of partitions processed concurrently.
	Workers int `mapstructure:"workers" default:"1"`
	// Duplicates selects the duplicate policy (last-wins, first-wins, error).
	Duplicates string `mapstructure:"duplicates" default:"last-wins"`
	// StrictKeys fails the load when the label file repeats an image id.
	StrictKeys bool `mapstructure:"strict_keys" default:"false"`
	// Labels is the label file name looked up in the working directory.
	Labels string `mapstructure:"labels" default:"AVA.txt"`
	// Indent is the JSON indent of join manifests.
	Indent int `mapstructure:"indent" default:"1"`
	// ArchiveIndent is the JSON indent of archive manifests.
	ArchiveIndent int `mapstructure:"archive_indent" default:"4"`
}

// Policy parses Duplicates.
func (c Config) Policy() (DuplicatePolicy, error) {
	return ParseDuplicatePolicy(c.Duplicates)
}
