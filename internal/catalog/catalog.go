package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/plantcare/internal/domain"
)

// CategoryAll disables category filtering.
const CategoryAll = "All"

//go:embed plants.yaml
var plantsYAML []byte

var (
	loadOnce sync.Once
	fixture  []domain.PlantRecord
)

// Parse decodes a YAML plant list and checks each record's enums.
func Parse(data []byte) ([]domain.PlantRecord, error) {
	var records []domain.PlantRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode plants: %w", err)
	}
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate plant id %d", r.ID)
		}
		seen[r.ID] = true
		if !validCategory(r.Category) {
			return nil, fmt.Errorf("plant %d: unknown category %q", r.ID, r.Category)
		}
		switch r.Difficulty {
		case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		default:
			return nil, fmt.Errorf("plant %d: unknown difficulty %q", r.ID, r.Difficulty)
		}
	}
	return records, nil
}

// Plants returns a copy of the built-in catalog.
func Plants() []domain.PlantRecord {
	loadOnce.Do(func() {
		records, err := Parse(plantsYAML)
		if err != nil {
			panic(err)
		}
		fixture = records
	})
	out := make([]domain.PlantRecord, len(fixture))
	for i, r := range fixture {
		r.Benefits = append([]string(nil), r.Benefits...)
		out[i] = r
	}
	return out
}

// Categories lists the filter choices in display order.
func Categories() []string {
	return []string{
		CategoryAll,
		string(domain.CategoryIndoor),
		string(domain.CategoryOutdoor),
		string(domain.CategorySucculent),
		string(domain.CategoryFern),
	}
}

func validCategory(c domain.Category) bool {
	switch c {
	case domain.CategoryIndoor, domain.CategoryOutdoor, domain.CategorySucculent, domain.CategoryFern:
		return true
	}
	return false
}

// Filter keeps records whose name or scientific name contains query
// (case-insensitive) and whose category equals category, unless category is
// CategoryAll. Input order is preserved and records are never modified.
func Filter(records []domain.PlantRecord, query, category string) []domain.PlantRecord {
	q := strings.ToLower(query)
	out := make([]domain.PlantRecord, 0, len(records))
	for _, r := range records {
		if category != CategoryAll && string(r.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.ScientificName), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}
