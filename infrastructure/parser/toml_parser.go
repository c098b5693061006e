package parser

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/udfkit/udf-go/domain/entities"
	"github.com/udfkit/udf-go/domain/ports"
)

// TomlManifestParser implements ManifestParser for TOML.
type TomlManifestParser struct{}

// NewTomlManifestParser creates a new TomlManifestParser.
func NewTomlManifestParser() ports.ManifestParser {
	return &TomlManifestParser{}
}

// Parse unmarshals TOML bytes into a Manifest. Unknown keys are rejected.
func (p *TomlManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var manifest entities.Manifest
	meta, err := toml.Decode(string(data), &manifest)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &manifest, nil
}
