package entities

// Manifest is the registration file for a guest module: where its wasm lives and which of its
// exports become SQL functions.
type Manifest struct {
	Wasm      string             `json:"wasm" yaml:"wasm" toml:"wasm" validate:"required" jsonschema:"description=Path of the compiled guest module"`
	Functions []FunctionManifest `json:"functions" yaml:"functions" toml:"functions" validate:"required,min=1,unique=Name,dive"`
}

// FunctionManifest describes one SQL function backed by a guest export.
type FunctionManifest struct {
	Name        string   `json:"name" yaml:"name" toml:"name" validate:"required,identifier" jsonschema:"description=SQL function name"`
	Entrypoint  string   `json:"entrypoint,omitempty" yaml:"entrypoint,omitempty" toml:"entrypoint,omitempty" validate:"omitempty,identifier" jsonschema:"description=Guest export to call; defaults to name"`
	InputTypes  []string `json:"input_types" yaml:"input_types" toml:"input_types" validate:"required,min=1,dive,sqltype" jsonschema:"minItems=1"`
	ReturnType  string   `json:"return_type" yaml:"return_type" toml:"return_type" validate:"required,sqltype"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Export returns the guest export backing the function.
func (f FunctionManifest) Export() string {
	if f.Entrypoint != "" {
		return f.Entrypoint
	}
	return f.Name
}

// Function looks up a function by SQL name.
func (m *Manifest) Function(name string) (FunctionManifest, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return FunctionManifest{}, false
}
