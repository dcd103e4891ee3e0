package app

import (
	"fmt"
	"log/slog"
	"os"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
	identitysvc "signalkeys/internal/services/identity"
	prekeysvc "signalkeys/internal/services/prekey"
	"signalkeys/internal/store"
)

// Wire bundles the curve and services for the CLI. The stores are reached
// only through the services.
type Wire struct {
	Curve    *crypto.Curve
	Identity domain.IdentityService
	PreKey   domain.PreKeyService
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.Home == "" {
		return nil, fmt.Errorf("home directory not set")
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home %s: %w", cfg.Home, err)
	}

	curve := crypto.New(crypto.WithStrategy(cfg.Strategy), crypto.WithLogger(log))

	var accounts domain.IdentityStore
	switch cfg.Keystore {
	case "", KeystoreFile:
		accounts = store.NewIdentityFileStore(cfg.Home)
	case KeystoreKeyring:
		ks, err := store.OpenIdentityKeyring(cfg.Home)
		if err != nil {
			return nil, fmt.Errorf("open keyring: %w", err)
		}
		accounts = ks
	default:
		return nil, fmt.Errorf("unknown keystore %q (want %s or %s)", cfg.Keystore, KeystoreFile, KeystoreKeyring)
	}
	prekeys := store.NewPreKeyFileStore(cfg.Home)

	return &Wire{
		Curve:    curve,
		Identity: identitysvc.New(curve, accounts, identitysvc.WithLogger(log)),
		PreKey:   prekeysvc.New(curve, accounts, prekeys, prekeysvc.WithLogger(log)),
	}, nil
}
