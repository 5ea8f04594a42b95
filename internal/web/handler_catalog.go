package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/plantcare/internal/catalog"
)

// catalogQuery reads the search text and category filter from the URL,
// defaulting the category to "All".
func catalogQuery(r *http.Request) (string, string) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	if category == "" {
		category = catalog.CategoryAll
	}
	return q.Get("q"), category
}

func (s *Server) handlePlantTypes(w http.ResponseWriter, r *http.Request) {
	query, category := catalogQuery(r)
	all := catalog.Plants()
	plants := catalog.Filter(all, query, category)

	if isHTMX(r) {
		if err := s.renderPartial(w, "partials/plant_grid.html", map[string]any{
			"Plants": plants,
			"Count":  len(plants),
		}); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}

	data := s.pageData(r, scopeID(r), "plant-types")
	data["Plants"] = plants
	data["Count"] = len(plants)
	data["Total"] = len(all)
	data["Query"] = query
	data["Category"] = category
	data["Categories"] = catalog.Categories()
	if err := s.renderPage(w, http.StatusOK, data, "pages/plant_types.html", "partials/plant_grid.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAPIPlants(w http.ResponseWriter, r *http.Request) {
	query, category := catalogQuery(r)
	s.writeJSON(w, http.StatusOK, catalog.Filter(catalog.Plants(), query, category))
}
