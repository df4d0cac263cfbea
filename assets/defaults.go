package assets

import (
	"embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// Templates holds the HTML templates for result fragments, printable reports
// and the intake page.
//
//go:embed templates/*.tmpl
var Templates embed.FS
