package store

import (
	"path/filepath"
	"sort"
	"sync"

	"signalkeys/internal/domain"
)

const (
	signedPreKeysFile = "signed_pre_keys.json"
	preKeysFile       = "pre_keys.json"
	preKeyMetaFile    = "pre_key_meta.json"
)

// PreKeyFileStore persists signed and one-time pre-keys to disk.
type PreKeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPreKeyFileStore returns a PreKeyFileStore rooted at dir.
func NewPreKeyFileStore(dir string) *PreKeyFileStore {
	return &PreKeyFileStore{dir: dir}
}

type preKeyMeta struct {
	CurrentSignedPreKeyID *uint32 `json:"current_signed_pre_key_id,omitempty"`
}

// SaveSignedPreKey stores spk under its id, replacing any previous entry.
func (s *PreKeyFileStore) SaveSignedPreKey(spk domain.SignedPreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(signedPreKeysFile)
	m := map[uint32]domain.SignedPreKey{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[spk.KeyID] = spk
	return writeJSON(path, m, 0o600)
}

// LoadSignedPreKey retrieves a signed pre-key by id.
func (s *PreKeyFileStore) LoadSignedPreKey(id uint32) (domain.SignedPreKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[uint32]domain.SignedPreKey{}
	if err := readJSON(s.path(signedPreKeysFile), &m); err != nil {
		return domain.SignedPreKey{}, false, err
	}
	spk, ok := m[id]
	return spk, ok, nil
}

// SetCurrentSignedPreKeyID records which signed pre-key is published.
func (s *PreKeyFileStore) SetCurrentSignedPreKeyID(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.path(preKeyMetaFile), preKeyMeta{CurrentSignedPreKeyID: &id}, 0o600)
}

// CurrentSignedPreKeyID returns the recorded current signed pre-key id.
func (s *PreKeyFileStore) CurrentSignedPreKeyID() (uint32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta preKeyMeta
	if err := readJSON(s.path(preKeyMetaFile), &meta); err != nil {
		return 0, false, err
	}
	if meta.CurrentSignedPreKeyID == nil {
		return 0, false, nil
	}
	return *meta.CurrentSignedPreKeyID, true, nil
}

// SavePreKeys merges keys into the one-time pre-key set.
func (s *PreKeyFileStore) SavePreKeys(keys []domain.PreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(preKeysFile)
	m := map[uint32]domain.PreKey{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	for _, k := range keys {
		m[k.KeyID] = k
	}
	return writeJSON(path, m, 0o600)
}

// LoadPreKey retrieves a one-time pre-key by id without removing it.
func (s *PreKeyFileStore) LoadPreKey(id uint32) (domain.PreKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[uint32]domain.PreKey{}
	if err := readJSON(s.path(preKeysFile), &m); err != nil {
		return domain.PreKey{}, false, err
	}
	pk, ok := m[id]
	return pk, ok, nil
}

// RemovePreKey deletes a consumed one-time pre-key. Removing an unknown id
// is not an error.
func (s *PreKeyFileStore) RemovePreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(preKeysFile)
	m := map[uint32]domain.PreKey{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return writeJSON(path, m, 0o600)
}

// ListPreKeys returns every stored one-time pre-key ordered by id.
func (s *PreKeyFileStore) ListPreKeys() ([]domain.PreKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[uint32]domain.PreKey{}
	if err := readJSON(s.path(preKeysFile), &m); err != nil {
		return nil, err
	}
	out := make([]domain.PreKey, 0, len(m))
	for _, pk := range m {
		out = append(out, pk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyID < out[j].KeyID })
	return out, nil
}

func (s *PreKeyFileStore) path(name string) string { return filepath.Join(s.dir, name) }

// Compile-time assertion that PreKeyFileStore implements domain.PreKeyStore.
var _ domain.PreKeyStore = (*PreKeyFileStore)(nil)
