package udfctl_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udfkit/udf-go/internal/udfctl"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := udfctl.NewApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"udfctl"}, args...))
	return out.String(), errOut.String(), err
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"input_types"`)
	assert.Contains(t, out, `"udf registration manifest"`)
}

func TestSQL_Positional(t *testing.T) {
	wasm, err := os.ReadFile("testdata/echo.wasm")
	require.NoError(t, err)

	out, _, err := run(t, "sql", "add", "add_i64", "testdata/echo.wasm")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "CREATE FUNCTION add AS '\n"), out)
	assert.Contains(t, out, `"entrypoint": "add_i64"`)
	assert.Contains(t, out, `"language": "wasmMessagePack"`)
	assert.Contains(t, out, `"return_type": "BIGINT"`)
	assert.Contains(t, out, base64.StdEncoding.EncodeToString(wasm))
	assert.Contains(t, out, "\"input_types\": [\n    \"BIGINT\",\n    \"BIGINT\"\n  ]")
}

func TestSQL_Types(t *testing.T) {
	out, _, err := run(t, "sql", "--input", "TEXT", "--input", "TEXT", "--return", "TEXT",
		"concat", "concat", "testdata/echo.wasm")
	require.NoError(t, err)
	assert.Contains(t, out, `"return_type": "TEXT"`)
	assert.NotContains(t, out, "BIGINT")
}

func TestSQL_Manifest(t *testing.T) {
	out, _, err := run(t, "sql", "--manifest", "testdata/echo.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE FUNCTION echo_all AS")
	assert.Contains(t, out, `"entrypoint": "echo"`)
}

func TestSQL_Usage(t *testing.T) {
	_, _, err := run(t, "sql", "only-one")
	assert.ErrorContains(t, err, "usage: udfctl sql")
}

func TestCall(t *testing.T) {
	out, _, err := run(t, "call", "--wasm", "testdata/echo.wasm", "--export", "echo", "2", `"x"`, "[1.5]")
	require.NoError(t, err)
	assert.Equal(t, "Array[Int(2), String(\"x\"), Array[F64(1.5)]]\n", out)
}

func TestCall_Manifest(t *testing.T) {
	out, _, err := run(t, "call", "--manifest", "testdata/echo.yaml", "--function", "echo_all", "true")
	require.NoError(t, err)
	assert.Equal(t, "Array[Bool(true)]\n", out)
}

func TestCall_GuestFailure(t *testing.T) {
	_, _, err := run(t, "call", "--wasm", "testdata/echo.wasm", "--export", "fail", "1")
	assert.ErrorContains(t, err, "guest returned a null result pointer")
}

func TestCall_BadArgument(t *testing.T) {
	_, _, err := run(t, "call", "--wasm", "testdata/echo.wasm", "--export", "echo", "nope")
	assert.ErrorContains(t, err, `argument "nope"`)
}

func TestCall_NeedsTarget(t *testing.T) {
	_, _, err := run(t, "call", "1")
	assert.ErrorContains(t, err, "call needs --wasm and --export")
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", "--manifest", "testdata/echo.yaml", "--exports")
	require.NoError(t, err)
	assert.Equal(t, "ok: 1 function(s) in testdata/echo.yaml\n", out)
}

func TestValidate_MissingExport(t *testing.T) {
	_, _, err := run(t, "validate", "--manifest", "testdata/missing.yaml", "--exports")
	assert.ErrorContains(t, err, "function add_i64: missing export: add_i64")

	// Without --exports only the manifest itself is checked.
	_, _, err = run(t, "validate", "--manifest", "testdata/missing.yaml")
	assert.NoError(t, err)
}

func TestValidate_BadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "udf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wasm: x.wasm\nfunctions: []\n"), 0o600))

	_, _, err := run(t, "validate", "--manifest", path)
	assert.ErrorContains(t, err, "functions: must have at least 1 entries")
}

func TestLogFlags(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "call", "--wasm", "testdata/echo.wasm", "--export", "echo")
	assert.ErrorContains(t, err, `invalid log level "loud"`)

	_, _, err = run(t, "--log-format", "xml", "validate", "--manifest", "testdata/echo.yaml")
	assert.ErrorContains(t, err, `invalid log format "xml"`)

	_, stderr, err := run(t, "--log-level", "debug", "--log-format", "json",
		"call", "--wasm", "testdata/echo.wasm", "--export", "echo", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"calling guest"`)
}
