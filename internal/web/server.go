package web

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/domain"
	"github.com/vbonduro/plantcare/internal/render"
	"github.com/vbonduro/plantcare/internal/service"
)

type Server struct {
	gateway    ai.Gateway
	detection  *service.DetectionService
	auth       *service.AuthService
	workspaces *workspaces
	templates  fs.FS
	mux        *http.ServeMux
	tmplFuncs  template.FuncMap
	logger     *slog.Logger
}

// NewServer wires the page handlers. defaultCredential, when non-empty, is
// used for every scope that has not entered its own key.
func NewServer(
	gateway ai.Gateway,
	detection *service.DetectionService,
	auth *service.AuthService,
	defaultCredential string,
	tmpl fs.FS,
	logger *slog.Logger,
) *Server {
	s := &Server{
		gateway:    gateway,
		detection:  detection,
		auth:       auth,
		workspaces: newWorkspaces(gateway, detection, defaultCredential, logger, maxWorkspaces, workspaceTTL),
		templates:  tmpl,
		mux:        http.NewServeMux(),
		logger:     logger,
		tmplFuncs: template.FuncMap{
			"segments":        render.Classify,
			"emphasis":        render.Emphasis,
			"difficultyClass": difficultyClass,
			"severityClass":   severityClass,
			"clock":           func(t time.Time) string { return t.Format("15:04") },
			"inc":             func(i int) int { return i + 1 },
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)

	s.mux.HandleFunc("GET /dashboard", s.staticPage("dashboard", "pages/dashboard.html"))
	s.mux.HandleFunc("GET /watering", s.staticPage("watering", "pages/watering.html"))
	s.mux.HandleFunc("GET /history", s.staticPage("history", "pages/history.html"))
	s.mux.HandleFunc("GET /profile", s.handleProfile)

	s.mux.HandleFunc("GET /detection", s.handleDetectionPage)
	s.mux.HandleFunc("POST /detection/image", s.handleSelectImage)
	s.mux.HandleFunc("GET /detection/image", s.handleGetImage)
	s.mux.HandleFunc("POST /detection/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /detection/clear", s.handleClearImage)

	s.mux.HandleFunc("GET /plant-types", s.handlePlantTypes)
	s.mux.HandleFunc("GET /api/plants", s.handleAPIPlants)

	s.mux.HandleFunc("GET /chatbot", s.handleChatPage)
	s.mux.HandleFunc("POST /chatbot/messages", s.handleSendMessage)
	s.mux.HandleFunc("POST /credential", s.handleSetCredential)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("/", s.handleNotFound)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https://images.unsplash.com; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// HTTPServer returns a configured http.Server for addr. AI calls have no
// timeout of their own, so WriteTimeout is what bounds a hung upstream.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, append([]string{"base.html"}, files...)...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses and executes a single named partial template.
// The file must contain exactly one {{define "name"}}...{{end}} block.
func (s *Server) renderPartial(w http.ResponseWriter, file string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	basename := file
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		basename = file[idx+1:]
	}
	for _, t := range tmpl.Templates() {
		if n := t.Name(); n != "" && n != basename {
			return t.Execute(w, data)
		}
	}
	return tmpl.ExecuteTemplate(w, basename, data)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// pageData builds the data map shared by every full page. An empty scope
// has never logged in.
func (s *Server) pageData(r *http.Request, scope, nav string) map[string]any {
	var loggedIn bool
	if scope != "" {
		var err error
		loggedIn, err = s.auth.LoggedIn(r.Context(), scope)
		if err != nil {
			s.logger.Error("failed to read session flag", "error", err)
		}
	}
	return map[string]any{
		"ActiveNav": nav,
		"LoggedIn":  loggedIn,
		"Nav":       navigation,
	}
}

type navItem struct {
	Key, Name, Href string
}

var navigation = []navItem{
	{"dashboard", "Dashboard", "/dashboard"},
	{"detection", "Disease Detection", "/detection"},
	{"plant-types", "Plant Types", "/plant-types"},
	{"watering", "Auto-Watering", "/watering"},
	{"chatbot", "Chatbot", "/chatbot"},
	{"history", "History", "/history"},
}

func difficultyClass(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "badge-easy"
	case domain.DifficultyMedium:
		return "badge-medium"
	case domain.DifficultyHard:
		return "badge-hard"
	default:
		return "badge-neutral"
	}
}

func severityClass(s domain.Severity) string {
	switch s {
	case domain.SeverityNone:
		return "badge-easy"
	case domain.SeverityMild:
		return "badge-medium"
	case domain.SeverityModerate, domain.SeveritySevere:
		return "badge-hard"
	default:
		return "badge-neutral"
	}
}
