package domain

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one immutable entry of a chat transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// DiseaseNameHealthy and DiseaseNameUnusableImage are the literal disease
// names the diagnosis model is told to use for a healthy leaf and for an
// image that is not a usable leaf photo.
const (
	DiseaseNameHealthy       = "Healthy"
	DiseaseNameUnusableImage = "Unusable Image"
)

// DiagnosisResult is the outcome of one image-based disease analysis.
type DiagnosisResult struct {
	DiseaseName     string     `json:"diseaseName" yaml:"diseaseName"`
	Confidence      Confidence `json:"confidence" yaml:"confidence"`
	Severity        Severity   `json:"severity" yaml:"severity"`
	Description     string     `json:"description" yaml:"description"`
	Symptoms        []string   `json:"symptoms" yaml:"symptoms"`
	Causes          []string   `json:"causes" yaml:"causes"`
	Treatment       []string   `json:"treatment" yaml:"treatment"`
	Prevention      []string   `json:"prevention" yaml:"prevention"`
	AdditionalNotes string     `json:"additionalNotes,omitempty" yaml:"additionalNotes,omitempty"`
}

func (d *DiagnosisResult) Usable() bool {
	return d.DiseaseName != DiseaseNameUnusableImage
}

type Category string

const (
	CategoryIndoor    Category = "Indoor"
	CategoryOutdoor   Category = "Outdoor"
	CategorySucculent Category = "Succulent"
	CategoryFern      Category = "Fern"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// PlantRecord is a read-only catalog entry.
type PlantRecord struct {
	ID                int        `json:"id" yaml:"id"`
	Name              string     `json:"name" yaml:"name"`
	ScientificName    string     `json:"scientificName" yaml:"scientificName"`
	Image             string     `json:"image" yaml:"image"`
	Category          Category   `json:"category" yaml:"category"`
	Difficulty        Difficulty `json:"difficulty" yaml:"difficulty"`
	WateringFrequency string     `json:"wateringFrequency" yaml:"wateringFrequency"`
	Sunlight          string     `json:"sunlight" yaml:"sunlight"`
	Temperature       string     `json:"temperature" yaml:"temperature"`
	Description       string     `json:"description" yaml:"description"`
	Benefits          []string   `json:"benefits" yaml:"benefits"`
}
