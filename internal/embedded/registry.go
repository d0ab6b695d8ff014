// Package embedded registers every built-in document format.
//
// Import this package for its side effects to populate the core/format
// registry:
//
//	import _ "github.com/FocuswithJustin/earmark/internal/embedded"
package embedded

import (
	"github.com/FocuswithJustin/earmark/core/format"

	// Document formats
	_ "github.com/FocuswithJustin/earmark/core/format/ntriples"
	_ "github.com/FocuswithJustin/earmark/core/format/snapshot"
	_ "github.com/FocuswithJustin/earmark/core/format/sqlitedb"
	_ "github.com/FocuswithJustin/earmark/core/format/yaml"
)

// Formats lists the registry names of the built-in formats.
var Formats = []string{"ntriples", "snapshot", "sqlite", "yaml"}

// IsInitialized reports whether every built-in format is registered.
func IsInitialized() bool {
	for _, name := range Formats {
		if !format.Has(name) {
			return false
		}
	}
	return true
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	return len(format.List())
}
