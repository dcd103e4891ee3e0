package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
)

const identityFilename = "identity.json.enc"

// ErrNoAccount is returned when no account has been provisioned yet.
var ErrNoAccount = errors.New("no account provisioned")

// IdentityFileStore keeps the sealed account in a file under dir.
type IdentityFileStore struct {
	dir string
	kdf scryptParams
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, kdf: defaultScrypt}
}

// Path is the location of the sealed account file.
func (s *IdentityFileStore) Path() string { return filepath.Join(s.dir, identityFilename) }

// SaveAccount seals account with passphrase and writes it to disk.
func (s *IdentityFileStore) SaveAccount(passphrase string, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := sealAccount(passphrase, account, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.Path(), sealed, 0o600)
}

// LoadAccount reads and opens the sealed account.
func (s *IdentityFileStore) LoadAccount(passphrase string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.Path())
	if err != nil {
		return domain.Account{}, err
	}
	if b == nil {
		return domain.Account{}, ErrNoAccount
	}
	return openAccount(passphrase, b)
}

func sealAccount(passphrase string, account domain.Account, kdf scryptParams) ([]byte, error) {
	if err := account.IdentityKeyPair.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to store account: %w", err)
	}
	raw, err := json.Marshal(account)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(raw)
	return seal(passphrase, raw, kdf)
}

func openAccount(passphrase string, sealed []byte) (domain.Account, error) {
	raw, err := open(passphrase, sealed)
	if err != nil {
		return domain.Account{}, err
	}
	defer crypto.Wipe(raw)

	var account domain.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return domain.Account{}, fmt.Errorf("decode account: %w", err)
	}
	if err := account.IdentityKeyPair.Validate(); err != nil {
		return domain.Account{}, fmt.Errorf("stored account: %w", err)
	}
	return account, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
