package host_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/udfkit/udf-go/domain/entities"
	"github.com/udfkit/udf-go/host"
	"github.com/udfkit/udf-go/infrastructure/parser"
)

// LoaderIntegrationSuite tests the Loader with the default pipeline.
type LoaderIntegrationSuite struct {
	suite.Suite
	loader *host.Loader
}

func (s *LoaderIntegrationSuite) SetupTest() {
	l, err := host.NewLoader()
	s.Require().NoError(err)
	s.loader = l
}

func (s *LoaderIntegrationSuite) TestValidManifest() {
	yaml := `
wasm: arith.wasm
functions:
  - name: add_i64
    input_types: [BIGINT, BIGINT]
    return_type: BIGINT
  - name: concat
    input_types: [TEXT, TEXT]
    return_type: TEXT
`
	manifest, err := s.loader.LoadManifest([]byte(yaml), nil)
	s.Require().NoError(err)
	s.Equal("arith.wasm", manifest.Wasm)
	s.Len(manifest.Functions, 2)

	fn, ok := manifest.Function("concat")
	s.Require().True(ok)
	s.Equal("concat", fn.Export())
}

func (s *LoaderIntegrationSuite) TestTemplateVariables() {
	yaml := `
wasm: "{{.vars.dir}}/arith.wasm"
functions:
  - name: "{{.vars.prefix}}_add"
    entrypoint: add_i64
    input_types: [BIGINT, BIGINT]
    return_type: BIGINT
`
	manifest, err := s.loader.LoadManifest([]byte(yaml), map[string]interface{}{
		"dir":    "build",
		"prefix": "math",
	})
	s.Require().NoError(err)
	s.Equal("build/arith.wasm", manifest.Wasm)
	s.Equal("math_add", manifest.Functions[0].Name)
	s.Equal("add_i64", manifest.Functions[0].Export())
}

func (s *LoaderIntegrationSuite) TestMissingTemplateVariable() {
	_, err := s.loader.LoadManifest([]byte(`wasm: "{{.vars.dir}}/x.wasm"`), nil)
	s.ErrorContains(err, "failed to render manifest")
}

func (s *LoaderIntegrationSuite) TestInvalidManifest() {
	yaml := `
wasm: arith.wasm
functions:
  - name: add-i64
    input_types: [BIGINT, UUID]
    return_type: BIGINT
`
	_, err := s.loader.LoadManifest([]byte(yaml), nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "manifest validation failed:")
	s.Contains(err.Error(), `- functions[0].name: "add-i64" is not an identifier`)
	s.Contains(err.Error(), `- functions[0].input_types[1]: "UUID" is not a supported SQL type`)
}

func (s *LoaderIntegrationSuite) TestMalformedYAML() {
	_, err := s.loader.LoadManifest([]byte("wasm: [oops"), nil)
	s.ErrorContains(err, "failed to parse manifest")
}

func (s *LoaderIntegrationSuite) TestLoadManifestFile() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "udf.toml")
	toml := `
wasm = "arith.wasm"

[[functions]]
name = "add_f64"
input_types = ["DOUBLE", "DOUBLE"]
return_type = "DOUBLE"
`
	s.Require().NoError(os.WriteFile(path, []byte(toml), 0o600))

	manifest, err := s.loader.LoadManifestFile(path, nil)
	s.Require().NoError(err)
	s.Equal(filepath.Join(dir, "arith.wasm"), manifest.Wasm)
	s.Equal([]entities.FunctionManifest{
		{Name: "add_f64", InputTypes: []string{"DOUBLE", "DOUBLE"}, ReturnType: "DOUBLE"},
	}, manifest.Functions)
}

func (s *LoaderIntegrationSuite) TestLoadManifestFile_UnknownExtension() {
	path := filepath.Join(s.T().TempDir(), "udf.json")
	s.Require().NoError(os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := s.loader.LoadManifestFile(path, nil)
	s.ErrorContains(err, "unsupported manifest format")
}

func (s *LoaderIntegrationSuite) TestExplicitParser() {
	l, err := host.NewLoader(host.WithParser(parser.NewTomlManifestParser()))
	s.Require().NoError(err)

	_, err = l.LoadManifest([]byte("wasm: a.wasm"), nil)
	s.ErrorContains(err, "failed to parse manifest")
}

func TestLoaderIntegrationSuite(t *testing.T) {
	suite.Run(t, new(LoaderIntegrationSuite))
}
