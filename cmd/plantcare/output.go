package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/vbonduro/plantcare/internal/domain"
	"github.com/vbonduro/plantcare/internal/render"
)

// Output formats accepted by -o.
const (
	formatHuman = "human"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) error {
	switch f {
	case formatHuman, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want human, json or yaml)", f)
}

// writeStructured prints v as JSON or YAML. It reports false for the human
// format so the caller can print its own layout.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, string(out))
		return true, err
	case formatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprint(w, string(out))
		return true, err
	}
	return false, nil
}

var segmentColors = map[render.Kind]*color.Color{
	render.KindSectionTitle:     color.New(color.FgGreen, color.Bold),
	render.KindSubsectionHeader: color.New(color.FgCyan, color.Bold),
	render.KindTip:              color.New(color.FgBlue),
	render.KindWarning:          color.New(color.FgYellow),
	render.KindConfirmation:     color.New(color.FgGreen),
	render.KindDivider:          color.New(color.FgHiBlack),
}

var bold = color.New(color.Bold)

// printSegments writes an assistant reply line by line, coloured by kind.
func printSegments(w io.Writer, text string) {
	for _, seg := range render.Classify(text) {
		c, ok := segmentColors[seg.Kind]
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", seg.Indent))
		for _, span := range render.Emphasis(seg.Text) {
			switch {
			case ok:
				b.WriteString(c.Sprint(span.Text))
			case span.Bold:
				b.WriteString(bold.Sprint(span.Text))
			default:
				b.WriteString(span.Text)
			}
		}
		fmt.Fprintln(w, b.String())
	}
}

func severityColor(s domain.Severity) *color.Color {
	switch s {
	case domain.SeveritySevere:
		return color.New(color.FgRed, color.Bold)
	case domain.SeverityModerate:
		return color.New(color.FgRed)
	case domain.SeverityMild:
		return color.New(color.FgYellow)
	case domain.SeverityNone:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

func printDiagnosis(w io.Writer, d *domain.DiagnosisResult) {
	fmt.Fprintln(w)
	if !d.Usable() {
		color.New(color.FgYellow, color.Bold).Fprintln(w, "⚠️  The image is not a usable leaf photo")
		fmt.Fprintf(w, "   %s\n", d.Description)
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(w, "🍃 %s\n", d.DiseaseName)
	fmt.Fprintf(w, "   Confidence: %s   Severity: %s\n", d.Confidence, severityColor(d.Severity).Sprint(d.Severity))
	fmt.Fprintf(w, "   %s\n", d.Description)
	printList(w, "Symptoms", d.Symptoms)
	printList(w, "Causes", d.Causes)
	printList(w, "Treatment", d.Treatment)
	printList(w, "Prevention", d.Prevention)
	if d.AdditionalNotes != "" {
		fmt.Fprintf(w, "\n💡 %s\n", color.HiBlackString(d.AdditionalNotes))
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", bold.Sprint(title))
	for _, item := range items {
		fmt.Fprintf(w, "   • %s\n", item)
	}
}

func printPlants(w io.Writer, plants []domain.PlantRecord) {
	suffix := "s"
	if len(plants) == 1 {
		suffix = ""
	}
	fmt.Fprintf(w, "Showing %d plant%s\n", len(plants), suffix)
	for _, p := range plants {
		fmt.Fprintf(w, "\n%s %s\n", bold.Sprint(p.Name), color.HiBlackString("(%s)", p.ScientificName))
		fmt.Fprintf(w, "   %s · %s\n", p.Category, difficultyColor(p.Difficulty).Sprint(p.Difficulty))
		fmt.Fprintf(w, "   💧 %s  ☀️ %s  🌡️ %s\n", p.WateringFrequency, p.Sunlight, p.Temperature)
	}
}

func difficultyColor(d domain.Difficulty) *color.Color {
	switch d {
	case domain.DifficultyEasy:
		return color.New(color.FgGreen)
	case domain.DifficultyMedium:
		return color.New(color.FgYellow)
	case domain.DifficultyHard:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

// startSpinner shows a busy indicator on w until the returned func is called.
func startSpinner(w io.Writer, suffix string) func() {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
