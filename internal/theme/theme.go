// Package theme stores the light/dark/system appearance preference.
package theme

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"golist/internal/kv"
)

// Theme is an appearance preference.
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

// DefaultKey is the key the preference is stored under.
const DefaultKey = "app-theme"

// ErrInvalidTheme is returned when setting a value other than light, dark or system.
var ErrInvalidTheme = errors.New("invalid theme")

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case Light, Dark, System:
		return true
	}
	return false
}

// Resolve returns the theme actually applied: System follows systemDark.
func Resolve(t Theme, systemDark bool) Theme {
	switch t {
	case Light, Dark:
		return t
	}
	if systemDark {
		return Dark
	}
	return Light
}

// Preferences persists the theme under a single key.
type Preferences struct {
	kv  kv.Store
	key string
	def Theme
	log *zap.Logger
}

// NewPreferences creates Preferences stored under key with System as default.
func NewPreferences(store kv.Store, key string, log *zap.Logger) *Preferences {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Preferences{kv: store, key: key, def: System, log: log.With(zap.String("component", "theme"))}
}

// Get returns the stored theme. Absent or unknown values and backend
// failures return the default.
func (p *Preferences) Get(ctx context.Context) Theme {
	raw, ok, err := p.kv.Get(ctx, p.key)
	if err != nil {
		p.log.Warn("read failed, using default theme", zap.Error(err))
		return p.def
	}
	if t := Theme(raw); ok && t.Valid() {
		return t
	}
	return p.def
}

// Set stores t.
func (p *Preferences) Set(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, string(t))
	}
	if err := p.kv.Set(ctx, p.key, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
