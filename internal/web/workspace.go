package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/chat"
	"github.com/vbonduro/plantcare/internal/service"
)

const scopeCookie = "plantcare_scope"

// workspace is the in-memory page state of one browser scope. It lives until
// the registry evicts it.
type workspace struct {
	chat      *chat.Session
	detection *service.Detection

	mu         sync.Mutex
	credential string
	chatErr    error
}

// Registry bounds. A workspace idle for workspaceTTL, or pushed out by more
// than maxWorkspaces newer scopes, is dropped along with its stored image.
const (
	maxWorkspaces = 1000
	workspaceTTL  = 2 * time.Hour
)

type workspaces struct {
	gateway           ai.Gateway
	detection         *service.DetectionService
	defaultCredential string
	logger            *slog.Logger

	mu      sync.Mutex
	byScope *expirable.LRU[string, *workspace]
}

func newWorkspaces(
	gateway ai.Gateway,
	detection *service.DetectionService,
	defaultCredential string,
	logger *slog.Logger,
	size int,
	ttl time.Duration,
) *workspaces {
	ws := &workspaces{
		gateway:           gateway,
		detection:         detection,
		defaultCredential: strings.TrimSpace(defaultCredential),
		logger:            logger,
	}
	ws.byScope = expirable.NewLRU[string, *workspace](size, ws.evict, ttl)
	return ws
}

// evict runs with the registry's internal lock held; it must not call back
// into byScope.
func (ws *workspaces) evict(scope string, w *workspace) {
	ws.logger.Debug("workspace evicted", "scope", scope)
	ws.detection.Clear(context.Background(), w.detection)
}

// get returns the workspace of scope, creating it if needed, and renews its
// idle deadline.
func (ws *workspaces) get(scope string) *workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	w, ok := ws.byScope.Get(scope)
	if !ok {
		// An expired entry not yet swept is evicted here so its image goes too.
		ws.byScope.Remove(scope)
		w = &workspace{
			chat:      chat.NewSession(ws.gateway, ws.logger.With("scope", scope)),
			detection: service.NewDetection(),
		}
	}
	ws.byScope.Add(scope, w)
	return w
}

func (ws *workspaces) len() int {
	return ws.byScope.Len()
}

// credential returns the key the scope entered, else the configured default.
func (ws *workspaces) credential(w *workspace) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.credential != "" {
		return w.credential
	}
	return ws.defaultCredential
}

func (w *workspace) setCredential(credential string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credential = strings.TrimSpace(credential)
}

func (w *workspace) setChatErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chatErr = err
}

func (w *workspace) lastChatErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chatErr
}

// scopeID returns the caller's scope id, or "" when the request carries no
// valid scope cookie. It never issues a cookie.
func scopeID(r *http.Request) string {
	if c, err := r.Cookie(scopeCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	return ""
}

// scope returns the caller's scope id, issuing a new cookie when the request
// carries none or an invalid one.
func scope(w http.ResponseWriter, r *http.Request) string {
	if id := scopeID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     scopeCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// workspace materialises the caller's workspace. Only handlers that keep
// per-scope state call it.
func (s *Server) workspace(w http.ResponseWriter, r *http.Request) (string, *workspace) {
	id := scope(w, r)
	return id, s.workspaces.get(id)
}
