package service

import (
	"context"
	"log/slog"

	"github.com/vbonduro/plantcare/internal/session"
)

// AuthService is a simulated login. Any submission succeeds and only sets
// the scope's logged-in flag; nothing is verified and no page is gated on
// the flag. Replace it before putting the app behind a real identity
// provider.
type AuthService struct {
	store  session.Store
	logger *slog.Logger
}

func NewAuthService(store session.Store, logger *slog.Logger) *AuthService {
	return &AuthService{store: store, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, scope string) error {
	if err := session.NewFlag(s.store, scope).MarkLoggedIn(ctx); err != nil {
		return err
	}
	s.logger.Info("simulated login", "scope", scope)
	return nil
}

func (s *AuthService) Logout(ctx context.Context, scope string) error {
	if err := session.NewFlag(s.store, scope).ClearLoggedIn(ctx); err != nil {
		return err
	}
	s.logger.Info("logout", "scope", scope)
	return nil
}

func (s *AuthService) LoggedIn(ctx context.Context, scope string) (bool, error) {
	return session.NewFlag(s.store, scope).IsLoggedIn(ctx)
}
