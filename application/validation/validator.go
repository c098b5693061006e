// Package validation checks registration manifests with go-playground/validator struct tags,
// extended with the identifier and SQL type rules the database enforces at CREATE FUNCTION time.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/udfkit/udf-go/domain/entities"
	"github.com/udfkit/udf-go/domain/ports"
)

// MaxDecimalPrecision is the largest DECIMAL precision a 128-bit value can hold in full.
const MaxDecimalPrecision = 38

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	decimalPattern    = regexp.MustCompile(`^DECIMAL\((\d+),\s*(\d+)\)$`)

	scalarTypes = map[string]bool{
		"BIGINT":   true,
		"INT":      true,
		"SMALLINT": true,
		"TINYINT":  true,
		"DOUBLE":   true,
		"FLOAT":    true,
		"BOOL":     true,
		"TEXT":     true,
		"VARCHAR":  true,
		"BLOB":     true,
	}
)

// IsIdentifier reports whether s can name a SQL function or a wasm export.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// IsSQLType reports whether s names a column type a udf can take or return. DECIMAL requires
// 1 <= precision <= MaxDecimalPrecision and scale <= precision. Matching ignores case.
func IsSQLType(s string) bool {
	t := strings.ToUpper(strings.TrimSpace(s))
	if scalarTypes[t] {
		return true
	}
	m := decimalPattern.FindStringSubmatch(t)
	if m == nil {
		return false
	}
	precision, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	scale, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	return precision >= 1 && precision <= MaxDecimalPrecision && scale <= precision
}

// ManifestValidator implements ports.ManifestValidator.
type ManifestValidator struct {
	validate *validator.Validate
}

// NewManifestValidator creates a validator with the identifier and sqltype rules registered.
func NewManifestValidator() (ports.ManifestValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register identifier rule: %w", err)
	}
	if err := v.RegisterValidation("sqltype", func(fl validator.FieldLevel) bool {
		return IsSQLType(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register sqltype rule: %w", err)
	}

	// Report fields by their manifest key rather than the Go field name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &ManifestValidator{validate: v}, nil
}

// Validate checks the manifest against its struct tags.
func (v *ManifestValidator) Validate(manifest *entities.Manifest) (*entities.ValidationResult, error) {
	result := &entities.ValidationResult{Valid: true}

	err := v.validate.Struct(manifest)
	if err == nil {
		return result, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, err
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	result.Valid = false
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, entities.ValidationError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return result, nil
}

// fieldPath drops the root struct name: "Manifest.functions[0].name" becomes "functions[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "unique":
		return fmt.Sprintf("%s must be unique", strings.ToLower(fe.Param()))
	case "identifier":
		return fmt.Sprintf("%q is not an identifier", fe.Value())
	case "sqltype":
		return fmt.Sprintf("%q is not a supported SQL type", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// AsError folds an invalid result into a single error, or returns nil for a valid one.
func AsError(result *entities.ValidationResult) error {
	if result == nil || result.Valid {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("manifest validation failed:")
	for _, e := range result.Errors {
		fmt.Fprintf(&sb, "\n- %s: %s", e.Field, e.Message)
	}
	return errors.New(sb.String())
}
