package x3dh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
	"signalkeys/internal/protocol/x3dh"
	"signalkeys/internal/services/prekey"
	"signalkeys/internal/store"
)

type responder struct {
	identity domain.IdentityKeyPair
	spk      domain.SignedPreKey
	opk      domain.PreKey
	bundle   domain.PreKeyBundle
}

func newResponder(t *testing.T, c domain.Curve, withOPK bool) responder {
	t.Helper()
	id, err := c.GenerateKeyPair()
	require.NoError(t, err)
	svc := prekey.New(c, nil, nil)
	spk, err := svc.GenerateSignedPreKey(id, 1)
	require.NoError(t, err)

	r := responder{
		identity: id,
		spk:      spk,
		bundle: domain.PreKeyBundle{
			RegistrationID:        77,
			IdentityKey:           id.Public(),
			SignedPreKeyID:        spk.KeyID,
			SignedPreKey:          spk.KeyPair.Public(),
			SignedPreKeySignature: spk.Signature,
		},
	}
	if withOPK {
		r.opk, err = svc.GeneratePreKey(9)
		require.NoError(t, err)
		r.bundle.PreKeys = []domain.PreKeyPublic{{KeyID: 9, PublicKey: r.opk.KeyPair.Public()}}
	}
	return r
}

func newAccount(t *testing.T, c domain.Curve) domain.Account {
	t.Helper()
	id, err := c.GenerateKeyPair()
	require.NoError(t, err)
	return domain.Account{IdentityKeyPair: id, RegistrationID: 12}
}

func TestRoot_NoOneTimePreKey(t *testing.T) {
	c := crypto.Default()
	alice := newAccount(t, c)
	bob := newResponder(t, c, false)

	rootA, msg, err := x3dh.InitiatorRoot(c, alice, bob.bundle)
	require.NoError(t, err)
	assert.Len(t, rootA, x3dh.RootKeySize)
	assert.Nil(t, msg.PreKeyID)
	assert.Equal(t, uint32(1), msg.SignedPreKeyID)
	assert.Equal(t, alice.RegistrationID, msg.RegistrationID)

	rootB, err := x3dh.ResponderRoot(c, bob.identity, bob.spk.KeyPair, nil, msg)
	require.NoError(t, err)
	assert.Equal(t, rootA, rootB)
}

func TestRoot_WithOneTimePreKey(t *testing.T) {
	c := crypto.Default()
	alice := newAccount(t, c)
	bob := newResponder(t, c, true)

	rootA, msg, err := x3dh.InitiatorRoot(c, alice, bob.bundle)
	require.NoError(t, err)
	require.NotNil(t, msg.PreKeyID)
	assert.Equal(t, uint32(9), *msg.PreKeyID)

	rootB, err := x3dh.ResponderRoot(c, bob.identity, bob.spk.KeyPair, &bob.opk.KeyPair, msg)
	require.NoError(t, err)
	assert.Equal(t, rootA, rootB)

	_, err = x3dh.ResponderRoot(c, bob.identity, bob.spk.KeyPair, nil, msg)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRoot_AcrossStrategies(t *testing.T) {
	native := crypto.New(crypto.WithStrategy(crypto.StrategyNative))
	software := crypto.New(crypto.WithStrategy(crypto.StrategySoftware))

	alice := newAccount(t, native)
	bob := newResponder(t, software, true)

	rootA, msg, err := x3dh.InitiatorRoot(native, alice, bob.bundle)
	require.NoError(t, err)
	rootB, err := x3dh.ResponderRoot(software, bob.identity, bob.spk.KeyPair, &bob.opk.KeyPair, msg)
	require.NoError(t, err)
	assert.Equal(t, rootA, rootB)
}

func TestInitiatorRoot_RejectsForgedSignedPreKey(t *testing.T) {
	c := crypto.Default()
	alice := newAccount(t, c)
	bob := newResponder(t, c, false)

	bundle := bob.bundle
	bundle.SignedPreKeySignature = append([]byte(nil), bundle.SignedPreKeySignature...)
	bundle.SignedPreKeySignature[5] ^= 0x01

	_, _, err := x3dh.InitiatorRoot(c, alice, bundle)
	assert.ErrorIs(t, err, x3dh.ErrBadSignedPreKey)

	bundle.SignedPreKeySignature = bundle.SignedPreKeySignature[:63]
	_, _, err = x3dh.InitiatorRoot(c, alice, bundle)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestAccept_ConsumesOneTimePreKey(t *testing.T) {
	c := crypto.Default()
	alice := newAccount(t, c)
	bob := newResponder(t, c, true)

	keys := store.NewPreKeyFileStore(t.TempDir())
	require.NoError(t, keys.SaveSignedPreKey(bob.spk))
	require.NoError(t, keys.SavePreKeys([]domain.PreKey{bob.opk}))

	rootA, msg, err := x3dh.InitiatorRoot(c, alice, bob.bundle)
	require.NoError(t, err)

	rootB, err := x3dh.Accept(c, bob.identity, keys, msg)
	require.NoError(t, err)
	assert.Equal(t, rootA, rootB)

	_, ok, err := keys.LoadPreKey(bob.opk.KeyID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Replaying the same message finds the one-time pre-key gone.
	_, err = x3dh.Accept(c, bob.identity, keys, msg)
	assert.ErrorIs(t, err, x3dh.ErrUnknownPreKey)
}

func TestAccept_WithoutOneTimePreKey(t *testing.T) {
	c := crypto.Default()
	alice := newAccount(t, c)
	bob := newResponder(t, c, false)

	keys := store.NewPreKeyFileStore(t.TempDir())
	require.NoError(t, keys.SaveSignedPreKey(bob.spk))

	rootA, msg, err := x3dh.InitiatorRoot(c, alice, bob.bundle)
	require.NoError(t, err)
	rootB, err := x3dh.Accept(c, bob.identity, keys, msg)
	require.NoError(t, err)
	assert.Equal(t, rootA, rootB)
}

func TestAccept_UnknownSignedPreKey(t *testing.T) {
	c := crypto.Default()
	alice := newAccount(t, c)
	bob := newResponder(t, c, true)

	keys := store.NewPreKeyFileStore(t.TempDir())
	require.NoError(t, keys.SavePreKeys([]domain.PreKey{bob.opk}))

	_, msg, err := x3dh.InitiatorRoot(c, alice, bob.bundle)
	require.NoError(t, err)
	_, err = x3dh.Accept(c, bob.identity, keys, msg)
	assert.ErrorIs(t, err, x3dh.ErrUnknownSignedPreKey)

	// A failed accept does not consume the one-time pre-key.
	_, ok, err := keys.LoadPreKey(bob.opk.KeyID)
	require.NoError(t, err)
	assert.True(t, ok)
}
