package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarePromptWrapsQuestion(t *testing.T) {
	p := CarePrompt("Why are my fern tips brown?")

	assert.True(t, strings.HasSuffix(p, "User question: Why are my fern tips brown?"))
	assert.NotContains(t, p, "{{")
	for _, glyph := range []string{GlyphPin, GlyphBullet, GlyphTip, GlyphWarning, GlyphCheck} {
		assert.Contains(t, p, glyph)
	}
	assert.Contains(t, p, "\n"+Divider+"\n")
	for _, kw := range SectionKeywords {
		assert.Contains(t, p, "\n"+kw+":\n", "layout must use section %q", kw)
	}
}

func TestDiagnosisPromptListsSchema(t *testing.T) {
	for _, field := range []string{
		"diseaseName", "confidence", "severity", "description",
		"symptoms", "causes", "treatment", "prevention", "additionalNotes",
	} {
		assert.Contains(t, DiagnosisPrompt, `"`+field+`"`)
	}
	assert.Contains(t, DiagnosisPrompt, "High/Medium/Low")
	assert.Contains(t, DiagnosisPrompt, "Mild/Moderate/Severe/None")
	assert.Contains(t, DiagnosisPrompt, `"Unusable Image"`)
	assert.NotContains(t, DiagnosisPrompt, "%!")
}

func TestPromptFor(t *testing.T) {
	assert.Equal(t, DiagnosisPrompt, PromptFor(CapabilityVision, "ignored"))
	assert.Equal(t, CarePrompt("q"), PromptFor(CapabilityChat, "q"))
}
