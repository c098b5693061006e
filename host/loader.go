package host

import (
	"fmt"
	"os"
	"path/filepath"

	apptemplate "github.com/udfkit/udf-go/application/template"
	"github.com/udfkit/udf-go/application/validation"
	"github.com/udfkit/udf-go/domain/entities"
	"github.com/udfkit/udf-go/domain/ports"
	"github.com/udfkit/udf-go/infrastructure/parser"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	validator       ports.ManifestValidator
	templateEngine  ports.TemplateEngine
	parser          ports.ManifestParser
	strictTemplates bool // Fail on missing template keys
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		strictTemplates: true, // Secure default: fail on missing keys
	}
}

// Loader orchestrates the manifest loading pipeline: render, parse, validate.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithValidator replaces the default struct-tag validator.
func WithValidator(v ports.ManifestValidator) LoaderOption {
	return func(c *loaderConfig) {
		c.validator = v
	}
}

// WithParser sets a manifest parser. Without one, LoadManifestFile picks by file extension and
// LoadManifest assumes YAML.
func WithParser(p ports.ManifestParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithTemplateEngine sets a template engine.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithStrictTemplates enables/disables strict template mode.
// When enabled (default), template rendering fails if a referenced key is missing.
// Disable only for development or when missing keys should become empty strings.
func WithStrictTemplates(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strictTemplates = enabled
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.templateEngine == nil {
		cfg.templateEngine = apptemplate.NewGoTemplateEngine(
			apptemplate.WithStrict(cfg.strictTemplates),
		)
	}
	if cfg.validator == nil {
		v, err := validation.NewManifestValidator()
		if err != nil {
			return nil, fmt.Errorf("failed to create manifest validator: %w", err)
		}
		cfg.validator = v
	}

	return &Loader{config: cfg}, nil
}

// LoadManifest renders, parses, and validates a manifest.
func (l *Loader) LoadManifest(raw []byte, vars map[string]interface{}) (*entities.Manifest, error) {
	p := l.config.parser
	if p == nil {
		p = parser.NewYamlManifestParser()
	}
	return l.load(raw, vars, p)
}

// LoadManifestFile reads the manifest at path. A relative wasm path is resolved against the
// manifest's directory.
func (l *Loader) LoadManifestFile(path string, vars map[string]interface{}) (*entities.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	p := l.config.parser
	if p == nil {
		if p, err = parser.ForPath(path); err != nil {
			return nil, err
		}
	}

	manifest, err := l.load(raw, vars, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(manifest.Wasm) {
		manifest.Wasm = filepath.Join(filepath.Dir(path), manifest.Wasm)
	}
	return manifest, nil
}

func (l *Loader) load(raw []byte, vars map[string]interface{}, p ports.ManifestParser) (*entities.Manifest, error) {
	data, err := l.config.templateEngine.Render(raw, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}

	manifest, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	res, err := l.config.validator.Validate(manifest)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if err := validation.AsError(res); err != nil {
		return nil, err
	}

	return manifest, nil
}
