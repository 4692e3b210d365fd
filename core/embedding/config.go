package embedding

// Config holds configuration for the embedding service.
type Config struct {
	// Endpoint is the URL image bytes are posted to.
	Endpoint string `mapstructure:"endpoint" default:""`
	// Model names the embedding model; it is also recorded in the manifest.
	Model string `mapstructure:"model" default:"ViT-L/14"`
	// TimeoutSeconds bounds a single embedding request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
