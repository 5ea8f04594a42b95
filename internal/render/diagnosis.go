package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/domain"
)

var fencePattern = regexp.MustCompile("```[a-zA-Z]*\\n?")

// StripFences removes markdown code-fence markers and surrounding whitespace.
func StripFences(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// wireDiagnosis uses pointers so missing and null fields can be told apart
// from empty values.
type wireDiagnosis struct {
	DiseaseName     *string   `json:"diseaseName"`
	Confidence      *string   `json:"confidence"`
	Severity        *string   `json:"severity"`
	Description     *string   `json:"description"`
	Symptoms        *[]string `json:"symptoms"`
	Causes          *[]string `json:"causes"`
	Treatment       *[]string `json:"treatment"`
	Prevention      *[]string `json:"prevention"`
	AdditionalNotes *string   `json:"additionalNotes"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ai.ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// ParseDiagnosis validates a vision response against the DiagnosisResult
// shape. Unknown fields, missing or null required fields, out-of-range enums
// and trailing data are all rejected with ai.ErrMalformedResponse.
func ParseDiagnosis(raw string) (*domain.DiagnosisResult, error) {
	body := StripFences(raw)
	if body == "" {
		return nil, malformed("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()

	var w wireDiagnosis
	if err := dec.Decode(&w); err != nil {
		return nil, malformed("invalid json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed("trailing data after json object")
	}

	required := []struct {
		name    string
		present bool
	}{
		{"diseaseName", w.DiseaseName != nil},
		{"confidence", w.Confidence != nil},
		{"severity", w.Severity != nil},
		{"description", w.Description != nil},
		{"symptoms", w.Symptoms != nil},
		{"causes", w.Causes != nil},
		{"treatment", w.Treatment != nil},
		{"prevention", w.Prevention != nil},
	}
	for _, f := range required {
		if !f.present {
			return nil, malformed("missing field %q", f.name)
		}
	}

	if strings.TrimSpace(*w.DiseaseName) == "" {
		return nil, malformed("empty diseaseName")
	}
	confidence := domain.Confidence(*w.Confidence)
	if !confidence.Valid() {
		return nil, malformed("invalid confidence %q", *w.Confidence)
	}
	severity := domain.Severity(*w.Severity)
	if !severity.Valid() {
		return nil, malformed("invalid severity %q", *w.Severity)
	}

	result := &domain.DiagnosisResult{
		DiseaseName: *w.DiseaseName,
		Confidence:  confidence,
		Severity:    severity,
		Description: *w.Description,
		Symptoms:    *w.Symptoms,
		Causes:      *w.Causes,
		Treatment:   *w.Treatment,
		Prevention:  *w.Prevention,
	}
	if w.AdditionalNotes != nil {
		result.AdditionalNotes = *w.AdditionalNotes
	}
	return result, nil
}
