package store

import (
	"errors"
	"sync"

	"github.com/99designs/keyring"

	"signalkeys/internal/domain"
)

const (
	// KeyringService is the service name under which the account is kept.
	KeyringService = "signalkeys"

	keyringAccountKey = "identity"
)

// IdentityKeyringStore keeps the sealed account in the OS keyring. The
// keyring only ever sees the passphrase-sealed envelope.
type IdentityKeyringStore struct {
	ring keyring.Keyring
	kdf  scryptParams
	mu   sync.Mutex
}

// OpenIdentityKeyring opens the platform keyring for the signalkeys service.
func OpenIdentityKeyring(fileDir string) (*IdentityKeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      KeyringService,
		FileDir:          fileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(""),
	})
	if err != nil {
		return nil, err
	}
	return NewIdentityKeyringStore(ring), nil
}

// NewIdentityKeyringStore wraps an already opened keyring.
func NewIdentityKeyringStore(ring keyring.Keyring) *IdentityKeyringStore {
	return &IdentityKeyringStore{ring: ring, kdf: defaultScrypt}
}

// SaveAccount seals account and stores it under the identity key.
func (s *IdentityKeyringStore) SaveAccount(passphrase string, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := sealAccount(passphrase, account, s.kdf)
	if err != nil {
		return err
	}
	return s.ring.Set(keyring.Item{
		Key:         keyringAccountKey,
		Data:        sealed,
		Label:       "signalkeys identity",
		Description: "sealed X25519 identity key pair and registration id",
	})
}

// LoadAccount fetches and opens the sealed account.
func (s *IdentityKeyringStore) LoadAccount(passphrase string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ring.Get(keyringAccountKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return domain.Account{}, ErrNoAccount
	}
	if err != nil {
		return domain.Account{}, err
	}
	return openAccount(passphrase, item.Data)
}

// Compile-time assertion that IdentityKeyringStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityKeyringStore)(nil)
