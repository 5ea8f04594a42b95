package session

import (
	"context"
	"fmt"
)

// LoggedInKey is the flag key meaning "the user is logged in".
const LoggedInKey = "isLoggedIn"

// Store persists boolean flags per browser scope. It holds no identity or
// credential and is not a security boundary.
type Store interface {
	Get(ctx context.Context, scope, key string) (bool, error)
	Set(ctx context.Context, scope, key string) error
	Clear(ctx context.Context, scope, key string) error
}

// Flag is the logged-in flag of one scope.
type Flag struct {
	store Store
	scope string
}

func NewFlag(store Store, scope string) *Flag {
	return &Flag{store: store, scope: scope}
}

func (f *Flag) MarkLoggedIn(ctx context.Context) error {
	if err := f.store.Set(ctx, f.scope, LoggedInKey); err != nil {
		return fmt.Errorf("failed to mark logged in: %w", err)
	}
	return nil
}

func (f *Flag) ClearLoggedIn(ctx context.Context) error {
	if err := f.store.Clear(ctx, f.scope, LoggedInKey); err != nil {
		return fmt.Errorf("failed to clear logged in: %w", err)
	}
	return nil
}

func (f *Flag) IsLoggedIn(ctx context.Context) (bool, error) {
	ok, err := f.store.Get(ctx, f.scope, LoggedInKey)
	if err != nil {
		return false, fmt.Errorf("failed to read logged in flag: %w", err)
	}
	return ok, nil
}
