// Package sqlgen renders the CREATE FUNCTION statements that register guest exports with the
// database. The function body is a JSON document naming the export, the wire language, the SQL
// signature, and the module itself as base64.
package sqlgen

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/udfkit/udf-go/application/validation"
	"github.com/udfkit/udf-go/domain/entities"
)

// Language is the calling convention name the database dispatches on.
const Language = "wasmMessagePack"

// Definition is the JSON body of a CREATE FUNCTION statement.
type Definition struct {
	Entrypoint string   `json:"entrypoint"`
	Language   string   `json:"language"`
	InputTypes []string `json:"input_types"`
	ReturnType string   `json:"return_type"`
	Data       string   `json:"data"`
}

var createFunction = template.Must(template.New("create_function").Parse(
	"CREATE FUNCTION {{.Name}} AS '\n{{.Body}}';\n",
))

// NewDefinition checks fn and builds its definition. Type names are normalized to upper case.
func NewDefinition(fn entities.FunctionManifest, wasm []byte) (Definition, error) {
	if !validation.IsIdentifier(fn.Name) {
		return Definition{}, fmt.Errorf("function name %q is not an identifier", fn.Name)
	}
	if !validation.IsIdentifier(fn.Export()) {
		return Definition{}, fmt.Errorf("entrypoint %q is not an identifier", fn.Export())
	}
	if len(fn.InputTypes) == 0 {
		return Definition{}, fmt.Errorf("function %s: no input types", fn.Name)
	}
	if len(wasm) == 0 {
		return Definition{}, fmt.Errorf("function %s: empty wasm module", fn.Name)
	}

	inputs := make([]string, len(fn.InputTypes))
	for i, t := range fn.InputTypes {
		if !validation.IsSQLType(t) {
			return Definition{}, fmt.Errorf("function %s: input %d: %q is not a supported SQL type", fn.Name, i, t)
		}
		inputs[i] = normalizeType(t)
	}
	if !validation.IsSQLType(fn.ReturnType) {
		return Definition{}, fmt.Errorf("function %s: return type %q is not a supported SQL type", fn.Name, fn.ReturnType)
	}

	return Definition{
		Entrypoint: fn.Export(),
		Language:   Language,
		InputTypes: inputs,
		ReturnType: normalizeType(fn.ReturnType),
		Data:       base64.StdEncoding.EncodeToString(wasm),
	}, nil
}

// CreateFunction renders the statement registering fn, backed by wasm.
func CreateFunction(fn entities.FunctionManifest, wasm []byte) (string, error) {
	def, err := NewDefinition(fn, wasm)
	if err != nil {
		return "", err
	}

	body, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal definition: %w", err)
	}

	var buf bytes.Buffer
	err = createFunction.Execute(&buf, map[string]string{
		"Name": fn.Name,
		"Body": quote(string(body)),
	})
	if err != nil {
		return "", fmt.Errorf("render statement: %w", err)
	}
	return buf.String(), nil
}

// CreateFunctions renders one statement per function in the manifest, in order.
func CreateFunctions(m *entities.Manifest, wasm []byte) (string, error) {
	var sb strings.Builder
	for i, fn := range m.Functions {
		stmt, err := CreateFunction(fn, wasm)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(stmt)
	}
	return sb.String(), nil
}

// quote escapes s for a single-quoted SQL string literal.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func normalizeType(t string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(t)), " ", "")
}
