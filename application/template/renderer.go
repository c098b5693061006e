// Package template renders manifest files as Go templates before they are parsed, so one
// manifest can serve several builds: {{.vars.key}} reads a caller-supplied variable and
// {{env "NAME"}} reads the environment.
package template

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/udfkit/udf-go/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	lookupEnv func(string) (string, bool)
	strict    bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict:    true, // Secure default
		lookupEnv: os.LookupEnv,
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), rendering fails if a referenced variable or environment entry is missing.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// WithLookupEnv replaces the environment lookup behind {{env}}.
func WithLookupEnv(lookup func(string) (string, bool)) TemplateOption {
	return func(c *templateConfig) {
		c.lookupEnv = lookup
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

// Render processes the raw manifest bytes with the provided variables.
func (e *GoTemplateEngine) Render(raw []byte, vars map[string]interface{}) ([]byte, error) {
	tmpl := template.New("manifest").Funcs(template.FuncMap{"env": e.env})

	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest template: %w", err)
	}

	if vars == nil {
		vars = map[string]interface{}{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"vars": vars}); err != nil {
		return nil, fmt.Errorf("failed to execute manifest template: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *GoTemplateEngine) env(name string) (string, error) {
	v, ok := e.config.lookupEnv(name)
	if !ok && e.config.strict {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return v, nil
}
