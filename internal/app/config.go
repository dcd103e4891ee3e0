package app

import (
	"fmt"
	"log/slog"
	"strings"

	"signalkeys/internal/crypto"
)

// Keystore backends for the identity account.
const (
	KeystoreFile    = "file"
	KeystoreKeyring = "keyring"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string          // state directory, e.g. $HOME/.signalkeys
	Keystore string          // "file" (default) or "keyring"
	Strategy crypto.Strategy // X25519 implementation; StrategyAuto probes
	Logger   *slog.Logger    // optional; defaults to a discard logger
}

// ParseLogLevel maps the config spelling of a level to slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
