package scoring

import (
	"encoding/json" // json.Number support
	"errors"        // Sentinel errors
	"fmt"           // Message formatting
	"math"          // NaN and Inf checks
	"sort"          // Stable field ordering
	"strconv"       // Number parsing
	"strings"       // String helpers
)

// Field error messages
const (
	MsgNotANumber    = "Must be a number."
	MsgNotNull       = "This field may not be null."
	MsgNotAString    = "Not a valid string."
	MsgInvalidChoice = "Must be one of poor, standard, good."
)

var (
	errNotNumber = errors.New("not a number")
	errNotString = errors.New("not a string")
)

// ValidationError lists every offending field with its message
type ValidationError struct {
	Fields map[string]string // Field name to message
}

// NewValidationError returns a ValidationError for a single field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, f := range names {
		parts[i] = f + ": " + e.Fields[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// Validate checks a submission and coerces it in place.
// Numerical fields become float64 rounded to 2 decimals and categorical
// fields become strings. With partial set, missing fields are not reported.
func Validate(in Input, partial bool) error {
	verr := &ValidationError{}

	// Coerce numbers first so a present but malformed value reports as such
	for _, field := range NumericalFields {
		v, ok := in[field]
		if !ok {
			continue
		}
		n, err := toFloat(v)
		if err != nil {
			verr.add(field, MsgNotANumber)
			continue
		}
		in[field] = Round2(n)
	}

	for _, field := range append(append([]string{}, CategoricalFields...), OptionalCategoricalFields...) {
		v, ok := in[field]
		if !ok {
			continue
		}
		if v == nil {
			if isOptional(field) {
				continue
			}
			verr.add(field, MsgNotNull)
			continue
		}
		s, err := toString(v)
		if err != nil {
			verr.add(field, MsgNotAString)
			continue
		}
		in[field] = s
	}

	if v, ok := in[FieldCreditScore]; ok && v != nil {
		grade, err := NormalizeGrade(v)
		if err != nil {
			verr.add(FieldCreditScore, MsgInvalidChoice)
		} else {
			in[FieldCreditScore] = grade
		}
	}

	if !partial {
		for _, field := range CategoricalFields {
			if !in.Has(field) {
				verr.add(field, fmt.Sprintf("categorical %s is required.", field))
			}
		}
		for _, field := range NumericalFields {
			if !in.Has(field) {
				verr.add(field, fmt.Sprintf("numerical %s is required.", field))
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// NormalizeGrade lowercases a grade and checks it against the closed set
func NormalizeGrade(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errNotString
	}
	switch g := strings.ToLower(strings.TrimSpace(s)); g {
	case "poor", "standard", "good":
		return g, nil
	default:
		return "", fmt.Errorf("unknown grade %q", s)
	}
}

// Round2 rounds the exact binary value to 2 decimal places, ties to even
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func isOptional(field string) bool {
	for _, f := range OptionalCategoricalFields {
		if f == field {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return checkFinite(n)
	case float32:
		return checkFinite(float64(n))
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		return checkFinite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, errNotNumber
		}
		return checkFinite(f)
	default:
		return 0, errNotNumber
	}
}

func checkFinite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case json.Number:
		return s.String(), nil
	default:
		return "", errNotString
	}
}
