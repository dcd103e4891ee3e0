package identity

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrNoStore is returned by persistence methods on a Service built without a store.
	ErrNoStore = errors.New("identity store not configured")
)

// Service creates identity key pairs and registration ids.
//
// The identity key pair is a single X25519 key: its private scalar signs
// pre-keys and also takes part in X3DH agreement.
type Service struct {
	curve domain.Curve
	store domain.IdentityStore
	rand  io.Reader
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRandom replaces crypto/rand.Reader for registration ids.
func WithRandom(r io.Reader) Option { return func(s *Service) { s.rand = r } }

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// New returns an identity service. store may be nil when only the
// generators are needed.
func New(curve domain.Curve, store domain.IdentityStore, opts ...Option) *Service {
	s := &Service{
		curve: curve,
		store: store,
		rand:  rand.Reader,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GenerateIdentityKeyPair returns a fresh identity key pair.
func (s *Service) GenerateIdentityKeyPair() (domain.IdentityKeyPair, error) {
	return s.curve.GenerateKeyPair()
}

// GenerateRegistrationID draws two random bytes, reads them as a
// little-endian uint16 and masks the result to 14 bits.
func (s *Service) GenerateRegistrationID() (domain.RegistrationID, error) {
	var b [2]byte
	if _, err := io.ReadFull(s.rand, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}
	return domain.RegistrationID(binary.LittleEndian.Uint16(b[:])) & domain.MaxRegistrationID, nil
}

// Provision creates a new account identity, stores it encrypted under
// passphrase, and returns it with the identity key fingerprint.
func (s *Service) Provision(passphrase string) (domain.Account, string, error) {
	if s.store == nil {
		return domain.Account{}, "", ErrNoStore
	}
	if !isSecurePassphrase(passphrase) {
		return domain.Account{}, "", ErrWeakPassphrase
	}

	identityKeyPair, err := s.GenerateIdentityKeyPair()
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("generate identity key pair: %w", err)
	}
	registrationID, err := s.GenerateRegistrationID()
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("generate registration id: %w", err)
	}

	account := domain.Account{IdentityKeyPair: identityKeyPair, RegistrationID: registrationID}
	if err := s.store.SaveAccount(passphrase, account); err != nil {
		return domain.Account{}, "", err
	}

	fp := crypto.Fingerprint(identityKeyPair.PublicKey)
	s.log.Info("identity provisioned", "fingerprint", fp, "registration_id", registrationID)
	return account, fp, nil
}

// LoadAccount decrypts and returns the stored account.
func (s *Service) LoadAccount(passphrase string) (domain.Account, error) {
	if s.store == nil {
		return domain.Account{}, ErrNoStore
	}
	return s.store.LoadAccount(passphrase)
}

// Fingerprint returns the short fingerprint of the stored identity key.
func (s *Service) Fingerprint(passphrase string) (string, error) {
	account, err := s.LoadAccount(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(account.IdentityKeyPair.PublicKey), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
