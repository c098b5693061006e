package ports

import "github.com/udfkit/udf-go/domain/entities"

// ManifestValidator checks a parsed manifest before it is used.
type ManifestValidator interface {
	// Validate reports every rule the manifest breaks. The error is reserved for failures of
	// the validator itself.
	Validate(manifest *entities.Manifest) (*entities.ValidationResult, error)
}
