// Package parser decodes registration manifests from YAML or TOML.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/udfkit/udf-go/domain/ports"
)

// ForPath picks a parser by file extension: .yaml/.yml or .toml.
func ForPath(path string) (ports.ManifestParser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYamlManifestParser(), nil
	case ".toml":
		return NewTomlManifestParser(), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}
}
