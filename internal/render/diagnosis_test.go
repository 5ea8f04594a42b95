package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/domain"
)

const validDiagnosis = `{
  "diseaseName": "Powdery Mildew",
  "confidence": "High",
  "severity": "Moderate",
  "description": "White fungal growth on leaf surface.",
  "symptoms": ["White powdery spots", "Curling leaves"],
  "causes": ["High humidity"],
  "treatment": ["Remove infected leaves", "Apply fungicide"],
  "prevention": ["Improve air circulation"],
  "additionalNotes": "Isolate the plant."
}`

func TestParseDiagnosisFenced(t *testing.T) {
	result, err := ParseDiagnosis("```json\n" + validDiagnosis + "\n```")

	require.NoError(t, err)
	assert.Equal(t, &domain.DiagnosisResult{
		DiseaseName:     "Powdery Mildew",
		Confidence:      domain.ConfidenceHigh,
		Severity:        domain.SeverityModerate,
		Description:     "White fungal growth on leaf surface.",
		Symptoms:        []string{"White powdery spots", "Curling leaves"},
		Causes:          []string{"High humidity"},
		Treatment:       []string{"Remove infected leaves", "Apply fungicide"},
		Prevention:      []string{"Improve air circulation"},
		AdditionalNotes: "Isolate the plant.",
	}, result)
}

func TestParseDiagnosisBare(t *testing.T) {
	result, err := ParseDiagnosis("  " + validDiagnosis + "\n")
	require.NoError(t, err)
	assert.Equal(t, "Powdery Mildew", result.DiseaseName)
}

func TestParseDiagnosisOptionalNotes(t *testing.T) {
	raw := `{"diseaseName":"Healthy","confidence":"Low","severity":"None","description":"",
		"symptoms":[],"causes":[],"treatment":[],"prevention":[]}`
	result, err := ParseDiagnosis(raw)
	require.NoError(t, err)
	assert.Empty(t, result.AdditionalNotes)
	assert.True(t, result.Usable())
}

func TestParseDiagnosisRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"fence only", "```json\n```"},
		{"prose", "I think the plant has mildew."},
		{"truncated", `{"diseaseName":"x"`},
		{"missing field", `{"diseaseName":"x","confidence":"High","severity":"Mild","description":"",
			"symptoms":[],"causes":[],"treatment":[]}`},
		{"null field", `{"diseaseName":"x","confidence":"High","severity":"Mild","description":null,
			"symptoms":[],"causes":[],"treatment":[],"prevention":[]}`},
		{"bad confidence", `{"diseaseName":"x","confidence":"Very High","severity":"Mild","description":"",
			"symptoms":[],"causes":[],"treatment":[],"prevention":[]}`},
		{"bad severity", `{"diseaseName":"x","confidence":"High","severity":"Critical","description":"",
			"symptoms":[],"causes":[],"treatment":[],"prevention":[]}`},
		{"unknown field", `{"diseaseName":"x","confidence":"High","severity":"Mild","description":"",
			"symptoms":[],"causes":[],"treatment":[],"prevention":[],"plant":"rose"}`},
		{"wrong type", `{"diseaseName":"x","confidence":"High","severity":"Mild","description":"",
			"symptoms":"spots","causes":[],"treatment":[],"prevention":[]}`},
		{"trailing data", validDiagnosis + " {}"},
		{"blank name", `{"diseaseName":" ","confidence":"High","severity":"Mild","description":"",
			"symptoms":[],"causes":[],"treatment":[],"prevention":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDiagnosis(tt.raw)
			assert.ErrorIs(t, err, ai.ErrMalformedResponse)
			assert.Nil(t, result)
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripFences(` {"a":1} `))
}
