package ports

import "github.com/udfkit/udf-go/domain/entities"

// ManifestParser parses raw manifest bytes into a Manifest.
type ManifestParser interface {
	// Parse unmarshals manifest bytes. Unknown keys are an error.
	Parse(data []byte) (*entities.Manifest, error)
}
