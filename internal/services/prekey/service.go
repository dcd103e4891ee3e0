package prekey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"signalkeys/internal/domain"
)

var (
	// ErrNoSignedPreKey is returned when no current signed pre-key is stored.
	ErrNoSignedPreKey = errors.New("no signed pre-key available")

	// ErrNoStore is returned by persistence methods on a Service built without stores.
	ErrNoStore = errors.New("pre-key store not configured")
)

// Service generates pre-keys and, when stores are configured, keeps them
// and builds the bundle.
type Service struct {
	curve    domain.Curve
	accounts domain.IdentityStore
	prekeys  domain.PreKeyStore
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for generation events.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// New returns a pre-key service. Both stores may be nil when only the
// generators are needed.
func New(curve domain.Curve, accounts domain.IdentityStore, prekeys domain.PreKeyStore, opts ...Option) *Service {
	s := &Service{curve: curve, accounts: accounts, prekeys: prekeys, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GenerateSignedPreKey creates a key pair and signs its wire-form public
// key with the identity private key.
func (s *Service) GenerateSignedPreKey(identity domain.IdentityKeyPair, signedKeyID int) (domain.SignedPreKey, error) {
	if len(identity.PrivateKey) != domain.PrivateKeySize || len(identity.PublicKey) != domain.PublicKeySize {
		return domain.SignedPreKey{}, fmt.Errorf("%w: identity key pair has %d-byte private and %d-byte public key",
			domain.ErrInvalidArgument, len(identity.PrivateKey), len(identity.PublicKey))
	}
	id, err := validKeyID(signedKeyID)
	if err != nil {
		return domain.SignedPreKey{}, err
	}

	kp, err := s.curve.GenerateKeyPair()
	if err != nil {
		return domain.SignedPreKey{}, err
	}
	sig, err := s.curve.Sign(identity.PrivateKey, kp.PublicKey)
	if err != nil {
		return domain.SignedPreKey{}, err
	}
	return domain.SignedPreKey{KeyID: id, KeyPair: kp, Signature: sig}, nil
}

// GeneratePreKey creates a one-time pre-key with the given id.
func (s *Service) GeneratePreKey(keyID int) (domain.PreKey, error) {
	id, err := validKeyID(keyID)
	if err != nil {
		return domain.PreKey{}, err
	}
	kp, err := s.curve.GenerateKeyPair()
	if err != nil {
		return domain.PreKey{}, err
	}
	return domain.PreKey{KeyID: id, KeyPair: kp}, nil
}

// GeneratePreKeys creates count one-time pre-keys with ids start,
// start+1, ... in parallel. The result is ordered by id.
func (s *Service) GeneratePreKeys(ctx context.Context, start, count int) ([]domain.PreKey, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative batch size %d", domain.ErrInvalidArgument, count)
	}
	if count == 0 {
		return nil, nil
	}
	if _, err := validKeyID(start); err != nil {
		return nil, err
	}
	if _, err := validKeyID(start + count - 1); err != nil {
		return nil, err
	}

	out := make([]domain.PreKey, count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range count {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pk, err := s.GeneratePreKey(start + i)
			if err != nil {
				return err
			}
			out[i] = pk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateAndStore creates a signed pre-key with signedKeyID, marks it
// current, and stores count one-time pre-keys starting at start.
func (s *Service) GenerateAndStore(
	ctx context.Context,
	passphrase string,
	signedKeyID, start, count int,
) (domain.SignedPreKey, []domain.PreKey, error) {
	if s.accounts == nil || s.prekeys == nil {
		return domain.SignedPreKey{}, nil, ErrNoStore
	}
	account, err := s.accounts.LoadAccount(passphrase)
	if err != nil {
		return domain.SignedPreKey{}, nil, err
	}

	// Everything is generated before the first write so a rejected id
	// range leaves the store untouched.
	spk, err := s.GenerateSignedPreKey(account.IdentityKeyPair, signedKeyID)
	if err != nil {
		return domain.SignedPreKey{}, nil, fmt.Errorf("signed pre-key: %w", err)
	}
	batch, err := s.GeneratePreKeys(ctx, start, count)
	if err != nil {
		return domain.SignedPreKey{}, nil, fmt.Errorf("one-time pre-keys: %w", err)
	}

	if err := s.prekeys.SavePreKeys(batch); err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	if err := s.prekeys.SaveSignedPreKey(spk); err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	if err := s.prekeys.SetCurrentSignedPreKeyID(spk.KeyID); err != nil {
		return domain.SignedPreKey{}, nil, err
	}

	s.log.Info("pre-keys generated", "signed_pre_key_id", spk.KeyID, "one_time_count", len(batch), "first_id", start)
	return spk, batch, nil
}

// LoadBundle builds the public bundle from the stored account, the current
// signed pre-key and the remaining one-time pre-keys. The signed pre-key's
// signature is checked against the identity key before it is published.
func (s *Service) LoadBundle(passphrase string) (domain.PreKeyBundle, error) {
	if s.accounts == nil || s.prekeys == nil {
		return domain.PreKeyBundle{}, ErrNoStore
	}
	account, err := s.accounts.LoadAccount(passphrase)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	spkID, ok, err := s.prekeys.CurrentSignedPreKeyID()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !ok {
		return domain.PreKeyBundle{}, ErrNoSignedPreKey
	}
	spk, found, err := s.prekeys.LoadSignedPreKey(spkID)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !found {
		return domain.PreKeyBundle{}, ErrNoSignedPreKey
	}
	valid, err := s.curve.Verify(account.IdentityKeyPair.PublicKey, spk.KeyPair.PublicKey, spk.Signature, domain.FullVerification)
	if err != nil {
		return domain.PreKeyBundle{}, fmt.Errorf("signed pre-key %d: %w", spkID, err)
	}
	if !valid {
		return domain.PreKeyBundle{}, fmt.Errorf("signed pre-key %d: signature does not match identity key", spkID)
	}

	oneTime, err := s.prekeys.ListPreKeys()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	sort.Slice(oneTime, func(i, j int) bool { return oneTime[i].KeyID < oneTime[j].KeyID })
	publics := make([]domain.PreKeyPublic, 0, len(oneTime))
	for _, pk := range oneTime {
		publics = append(publics, domain.PreKeyPublic{KeyID: pk.KeyID, PublicKey: pk.KeyPair.Public()})
	}

	return domain.PreKeyBundle{
		RegistrationID:        account.RegistrationID,
		IdentityKey:           account.IdentityKeyPair.Public(),
		SignedPreKeyID:        spk.KeyID,
		SignedPreKey:          spk.KeyPair.Public(),
		SignedPreKeySignature: append([]byte(nil), spk.Signature...),
		PreKeys:               publics,
	}, nil
}

// validKeyID checks that id fits the uint32 key id space.
func validKeyID(id int) (uint32, error) {
	if id < 0 || uint64(id) > domain.MaxKeyID {
		return 0, fmt.Errorf("%w: key id %d out of range [0, %d]", domain.ErrInvalidArgument, id, uint64(domain.MaxKeyID))
	}
	return uint32(id), nil
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)
