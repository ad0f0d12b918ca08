package storage

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("storage: not found")

// Keys used by the application.
const (
	KeyEvents = "events"
	KeyLastID = "lastId"
	KeyTheme  = "theme"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// KV is a flat string key-value store. Writes are synchronous.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// LoadTheme returns the saved theme, defaulting to dark.
func LoadTheme(ctx context.Context, kv KV) (string, error) {
	raw, err := kv.Get(ctx, KeyTheme)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ThemeDark, nil
		}
		return "", err
	}
	if strings.TrimSpace(raw) == ThemeLight {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

func SaveTheme(ctx context.Context, kv KV, theme string) error {
	if theme != ThemeLight {
		theme = ThemeDark
	}
	return kv.Set(ctx, KeyTheme, theme)
}
