package walker

import (
	"path/filepath"
	"sort"
	"strings"
)

// Extensions is a case-insensitive allow-list of file extensions. A nil
// Extensions accepts every file.
type Extensions map[string]struct{}

// NewExtensions builds an allow-list. Entries may be given with or without the
// leading dot.
func NewExtensions(exts ...string) Extensions {
	set := make(Extensions, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}

// JoinImageExtensions are the image types the directory join accepts.
func JoinImageExtensions() Extensions {
	return NewExtensions(".jpg", ".png")
}

// ArchiveImageExtensions are the image types accepted inside archives.
func ArchiveImageExtensions() Extensions {
	return NewExtensions(".gif", ".jpg", ".jpeg", ".png", ".ppm", ".bmp", ".pgm", ".tif", ".tiff", ".webp")
}

// Allows reports whether name carries an accepted extension.
func (e Extensions) Allows(name string) bool {
	if e == nil {
		return true
	}
	_, ok := e[strings.ToLower(filepath.Ext(name))]
	return ok
}

// List returns the extensions in sorted order.
func (e Extensions) List() []string {
	out := make([]string, 0, len(e))
	for ext := range e {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
