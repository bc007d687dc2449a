// Package config handles application configuration via environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"reports/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "REPORTS_")
// Use New() for global access, or Prefix("REPORTS_") for module scopes
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayRune returns a single-character value or def if missing/empty; logs and returns def
// when the value is longer than one character. `\t` is accepted for a tab
func (c Conf) MayRune(key string, def rune) rune {
	// raw lookup: a delimiter may be whitespace
	s := os.Getenv(c.key(key))
	if s == "" {
		return def
	}
	if s == `\t` {
		return '\t'
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Msg("expected a single character; using default")
		return def
	}
	return r
}
