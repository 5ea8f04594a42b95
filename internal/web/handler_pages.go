package web

import (
	"encoding/json"
	"net/http"
)

// Profile defaults shown until real accounts exist.
const (
	profileName  = "Plant Enthusiast"
	profileEmail = "user@plantcareai.com"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r, scopeID(r), "login")
	if err := s.renderPage(w, http.StatusOK, data, "pages/login.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// handleLogin accepts any submission; the login is simulated.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	id := scope(w, r)
	if err := s.auth.Login(r.Context(), id); err != nil {
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		s.logger.Error("login failed", "error", err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := scopeID(r); id != "" {
		if err := s.auth.Logout(r.Context(), id); err != nil {
			http.Error(w, "failed to sign out", http.StatusInternalServerError)
			s.logger.Error("logout failed", "error", err)
			return
		}
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) staticPage(nav, file string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.renderPage(w, http.StatusOK, s.pageData(r, scopeID(r), nav), file); err != nil {
			s.logger.Error("render page failed", "page", nav, "error", err)
		}
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r, scopeID(r), "profile")
	data["Name"] = profileName
	data["Email"] = profileEmail
	if err := s.renderPage(w, http.StatusOK, data, "pages/profile.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

var quickLinks = []navItem{
	{"dashboard", "Dashboard", "/dashboard"},
	{"detection", "Disease Detection", "/detection"},
	{"chatbot", "Plant Assistant", "/chatbot"},
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("route not found", "path", r.URL.Path)
	data := s.pageData(r, scopeID(r), "")
	data["Path"] = r.URL.Path
	data["QuickLinks"] = quickLinks
	if err := s.renderPage(w, http.StatusNotFound, data, "pages/not_found.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write json failed", "error", err)
	}
}
