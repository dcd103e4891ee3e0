package x3dh

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
)

// RootKeySize is the length of the derived root key.
const RootKeySize = 32

// ErrBadSignedPreKey is returned when a bundle's signed pre-key signature
// fails verification.
var ErrBadSignedPreKey = errors.New("signed pre-key signature invalid")

var (
	// ErrUnknownSignedPreKey is returned by Accept when the message names a
	// signed pre-key the store does not hold.
	ErrUnknownSignedPreKey = errors.New("unknown signed pre-key")

	// ErrUnknownPreKey is returned by Accept when the named one-time pre-key
	// is missing, including when it was already consumed.
	ErrUnknownPreKey = errors.New("unknown or consumed one-time pre-key")
)

var info = []byte("signalkeys-x3dh")

// InitiatorRoot verifies bundle, derives the root key for the initiator
// and returns the message the responder needs to derive it too. The first
// one-time pre-key in the bundle is used when present.
func InitiatorRoot(c domain.Curve, us domain.Account, bundle domain.PreKeyBundle) ([]byte, domain.PreKeyMessage, error) {
	ok, err := c.Verify(bundle.IdentityKey, bundle.SignedPreKey, bundle.SignedPreKeySignature, domain.FullVerification)
	if err != nil {
		return nil, domain.PreKeyMessage{}, fmt.Errorf("signed pre-key %d: %w", bundle.SignedPreKeyID, err)
	}
	if !ok {
		return nil, domain.PreKeyMessage{}, ErrBadSignedPreKey
	}

	eph, err := c.GenerateKeyPair()
	if err != nil {
		return nil, domain.PreKeyMessage{}, err
	}
	defer crypto.Wipe(eph.PrivateKey)

	msg := domain.PreKeyMessage{
		RegistrationID:       us.RegistrationID,
		InitiatorIdentityKey: us.IdentityKeyPair.Public(),
		EphemeralKey:         eph.Public(),
		SignedPreKeyID:       bundle.SignedPreKeyID,
	}

	pairs := []dhPair{
		{bundle.SignedPreKey, us.IdentityKeyPair.PrivateKey},
		{bundle.IdentityKey, eph.PrivateKey},
		{bundle.SignedPreKey, eph.PrivateKey},
	}
	if len(bundle.PreKeys) > 0 {
		opk := bundle.PreKeys[0]
		id := opk.KeyID
		msg.PreKeyID = &id
		pairs = append(pairs, dhPair{opk.PublicKey, eph.PrivateKey})
	}

	root, err := derive(c, pairs)
	if err != nil {
		return nil, domain.PreKeyMessage{}, err
	}
	return root, msg, nil
}

// ResponderRoot derives the root key from the responder's side. opk must
// be set exactly when msg names a one-time pre-key.
func ResponderRoot(
	c domain.Curve,
	us domain.IdentityKeyPair,
	spk domain.KeyPair,
	opk *domain.KeyPair,
	msg domain.PreKeyMessage,
) ([]byte, error) {
	if (opk == nil) != (msg.PreKeyID == nil) {
		return nil, fmt.Errorf("%w: one-time pre-key presence does not match message", domain.ErrInvalidArgument)
	}

	pairs := []dhPair{
		{msg.InitiatorIdentityKey, spk.PrivateKey},
		{msg.EphemeralKey, us.PrivateKey},
		{msg.EphemeralKey, spk.PrivateKey},
	}
	if opk != nil {
		pairs = append(pairs, dhPair{msg.EphemeralKey, opk.PrivateKey})
	}
	return derive(c, pairs)
}

// Accept is ResponderRoot backed by a pre-key store. It looks up the keys
// msg names and, once the root is derived, removes the one-time pre-key so
// it cannot be used for a second session.
func Accept(c domain.Curve, us domain.IdentityKeyPair, keys domain.PreKeyStore, msg domain.PreKeyMessage) ([]byte, error) {
	spk, ok, err := keys.LoadSignedPreKey(msg.SignedPreKeyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSignedPreKey, msg.SignedPreKeyID)
	}

	var opk *domain.KeyPair
	if msg.PreKeyID != nil {
		pk, ok, err := keys.LoadPreKey(*msg.PreKeyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPreKey, *msg.PreKeyID)
		}
		opk = &pk.KeyPair
	}

	root, err := ResponderRoot(c, us, spk.KeyPair, opk, msg)
	if err != nil {
		return nil, err
	}
	if msg.PreKeyID != nil {
		if err := keys.RemovePreKey(*msg.PreKeyID); err != nil {
			crypto.Wipe(root)
			return nil, fmt.Errorf("remove one-time pre-key %d: %w", *msg.PreKeyID, err)
		}
	}
	return root, nil
}

type dhPair struct {
	public, private []byte
}

func derive(c domain.Curve, pairs []dhPair) ([]byte, error) {
	km := make([]byte, 0, 32*(len(pairs)+1))
	for i := 0; i < 32; i++ {
		km = append(km, 0xff)
	}
	defer crypto.Wipe(km)

	for i, p := range pairs {
		secret, err := c.SharedSecret(p.public, p.private)
		if err != nil {
			return nil, fmt.Errorf("dh%d: %w", i+1, err)
		}
		km = append(km, secret...)
		crypto.Wipe(secret)
	}

	root := make([]byte, RootKeySize)
	r := hkdf.New(sha256.New, km, make([]byte, sha256.Size), info)
	if _, err := io.ReadFull(r, root); err != nil {
		return nil, err
	}
	return root, nil
}
