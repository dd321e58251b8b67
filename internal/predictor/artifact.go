// Package predictor loads the credit model artifact and grades submissions,
// falling back to fixed rules when the artifact's feature schema has drifted.
package predictor

import (
	"encoding/json" // Artifact decoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"math"          // Score comparison
	"os"            // Artifact reads
	"strings"       // Label normalisation

	"credit_scoring/internal/scoring" // Model rows

	"github.com/xeipuuv/gojsonschema" // Artifact schema validation
)

var (
	// ErrArtifactMissing means the model file does not exist
	ErrArtifactMissing = errors.New("model artifact not found")
	// ErrInvalidArtifact means the model file exists but cannot be used
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrFeatureShape means the row does not match the features the model was trained on
	ErrFeatureShape = errors.New("feature shape mismatch")
)

const artifactSchema = `{
  "type": "object",
  "required": ["features", "classes", "coefficients", "intercepts"],
  "properties": {
    "version":      {"type": "string"},
    "features":     {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "classes":      {"type": "array", "minItems": 2, "items": {"type": "string", "minLength": 1}},
    "coefficients": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
    "intercepts":   {"type": "array", "items": {"type": "number"}},
    "encoders": {
      "type": "object",
      "additionalProperties": {"type": "object", "additionalProperties": {"type": "number"}}
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(artifactSchema)

// Model is a multinomial linear classifier over a fixed, ordered feature list
type Model struct {
	Version      string                        `json:"version,omitempty"`  // Free-form artifact version
	Features     []string                      `json:"features"`           // Training-time feature order
	Classes      []string                      `json:"classes"`            // Output labels
	Coefficients [][]float64                   `json:"coefficients"`       // One weight row per class
	Intercepts   []float64                     `json:"intercepts"`         // One bias per class
	Encoders     map[string]map[string]float64 `json:"encoders,omitempty"` // Categorical value codes per feature
}

// LoadModel reads and validates an artifact from disk
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return ParseModel(data)
}

// ParseModel decodes an artifact and checks its dimensions
func ParseModel(data []byte) (*Model, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, strings.Join(errs, "; "))
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if len(m.Coefficients) != len(m.Classes) || len(m.Intercepts) != len(m.Classes) {
		return nil, fmt.Errorf("%w: %d classes, %d coefficient rows, %d intercepts",
			ErrInvalidArtifact, len(m.Classes), len(m.Coefficients), len(m.Intercepts))
	}
	for i, row := range m.Coefficients {
		if len(row) != len(m.Features) {
			return nil, fmt.Errorf("%w: class %q has %d weights for %d features",
				ErrInvalidArtifact, m.Classes[i], len(row), len(m.Features))
		}
	}
	return &m, nil
}

// Predict returns the highest scoring class for row, lowercased.
// A row whose feature count or names differ from the artifact yields ErrFeatureShape.
func (m *Model) Predict(row scoring.Row) (string, error) {
	if len(row) != len(m.Features) {
		return "", fmt.Errorf("%w: expected %d features, got %d", ErrFeatureShape, len(m.Features), len(row))
	}
	x := make([]float64, len(m.Features))
	for i, name := range m.Features {
		v, ok := row[name]
		if !ok {
			return "", fmt.Errorf("%w: missing feature %s", ErrFeatureShape, name)
		}
		f, err := m.encode(name, v)
		if err != nil {
			return "", err
		}
		x[i] = f
	}

	best, bestScore := 0, math.Inf(-1)
	for c, weights := range m.Coefficients {
		score := m.Intercepts[c]
		for i, w := range weights {
			score += w * x[i]
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return strings.ToLower(m.Classes[best]), nil
}

// encode turns a row value into the number the model was trained on.
// Unknown categories encode as 0.
func (m *Model) encode(feature string, v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		codes, ok := m.Encoders[feature]
		if !ok {
			return 0, fmt.Errorf("%w: feature %s is numerical in the model but categorical in the input", ErrFeatureShape, feature)
		}
		return codes[val], nil
	default:
		return 0, fmt.Errorf("%w: unsupported value type %T for %s", ErrFeatureShape, v, feature)
	}
}
