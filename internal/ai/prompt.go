package ai

import (
	"fmt"
	"strings"

	"github.com/vbonduro/plantcare/internal/domain"
)

// Glyphs and keywords of the chat formatting contract. The chat renderer
// classifies lines with these same values.
const (
	GlyphPin     = "📍"
	GlyphBullet  = "•"
	GlyphTip     = "💡"
	GlyphWarning = "❗"
	GlyphCheck   = "✅"
)

// Divider is the literal section divider line the care template asks for.
var Divider = strings.Repeat("-", 19)

// SectionKeywords are the subsection headers used by both care layouts.
var SectionKeywords = []string{
	"CAUSES",
	"SOLUTIONS",
	"PREVENTION",
	"BASIC NEEDS",
	"STEP-BY-STEP",
	"IMPORTANT",
}

const carePromptTemplate = `You are PlantCareAI. Format your responses EXACTLY like this example:

{{PIN}} PROBLEM: [One-line title]

CAUSES:
1. **[Main Cause]**
   {{BULLET}} What: [Brief explanation in 5-7 words]
   {{BULLET}} Signs: [2-3 clear symptoms]

2. **[Secondary Cause]**
   {{BULLET}} What: [Brief explanation in 5-7 words]
   {{BULLET}} Signs: [2-3 clear symptoms]

SOLUTIONS:
1. For [Main Cause]:
   {{BULLET}} Step 1: [Clear action in 5-7 words]
   {{BULLET}} Step 2: [Clear action in 5-7 words]

2. For [Secondary Cause]:
   {{BULLET}} Step 1: [Clear action in 5-7 words]
   {{BULLET}} Step 2: [Clear action in 5-7 words]

PREVENTION:
{{BULLET}} [One clear prevention tip]
{{BULLET}} [One clear prevention tip]

{{TIP}} QUICK TIP: [One practical, memorable tip]

{{DIVIDER}}

For care instructions, use this format:

{{PIN}} CARE GUIDE: [Topic]

BASIC NEEDS:
{{BULLET}} Water: [Exact frequency and amount]
{{BULLET}} Light: [Specific requirement]
{{BULLET}} Temperature: [Exact range]

STEP-BY-STEP:
1. [First step in 5-7 words]
2. [Second step in 5-7 words]
3. [Third step in 5-7 words]

IMPORTANT:
{{WARNING}} [One crucial warning or tip]
{{CHECK}} [One positive reminder]

Use EXACTLY this formatting with:
{{BULLET}} Clear numbering
{{BULLET}} Emoji markers ({{PIN}},{{TIP}},{{WARNING}},{{CHECK}})
{{BULLET}} Section dividers ({{DIVIDER}})
{{BULLET}} Bold for key terms (**)
{{BULLET}} Short, clear points
{{BULLET}} Proper spacing between sections

User question: `

var carePreamble = strings.NewReplacer(
	"{{PIN}}", GlyphPin,
	"{{BULLET}}", GlyphBullet,
	"{{TIP}}", GlyphTip,
	"{{WARNING}}", GlyphWarning,
	"{{CHECK}}", GlyphCheck,
	"{{DIVIDER}}", Divider,
).Replace(carePromptTemplate)

// CarePrompt wraps a free-text plant-care question in the chat formatting
// contract.
func CarePrompt(question string) string {
	return carePreamble + question
}

// DiagnosisPrompt asks the vision model for a DiagnosisResult as bare JSON.
var DiagnosisPrompt = fmt.Sprintf(`You are an expert plant pathologist. Analyze this leaf image and provide a detailed disease diagnosis.

Provide your response in the following JSON format (respond ONLY with valid JSON, no additional text):
{
  "diseaseName": "Name of the disease or '%[1]s' if no disease detected",
  "confidence": "%[3]s/%[4]s/%[5]s",
  "severity": "%[6]s/%[7]s/%[8]s/%[9]s",
  "description": "Brief description of the condition",
  "symptoms": ["List of visible symptoms"],
  "causes": ["Possible causes of this condition"],
  "treatment": ["Step-by-step treatment recommendations"],
  "prevention": ["Prevention measures for future"],
  "additionalNotes": "Any additional important information"
}

Use exactly these field names and no others. "confidence" must be one of %[3]s, %[4]s or %[5]s.
"severity" must be one of %[6]s, %[7]s, %[8]s or %[9]s.
Be specific and accurate. If the image is not clear or not a plant leaf, set "diseaseName" to exactly "%[2]s".`,
	domain.DiseaseNameHealthy,
	domain.DiseaseNameUnusableImage,
	domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow,
	domain.SeverityMild, domain.SeverityModerate, domain.SeveritySevere, domain.SeverityNone,
)

// PromptFor returns the template for a capability applied to input. Vision
// requests ignore input; the image carries the question.
func PromptFor(c Capability, input string) string {
	if c == CapabilityVision {
		return DiagnosisPrompt
	}
	return CarePrompt(input)
}
