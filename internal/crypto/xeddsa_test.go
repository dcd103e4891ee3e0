package crypto_test

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/libsignal/ecc"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
)

func TestSign_RoundTrip(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			c := crypto.New(crypto.WithStrategy(s))
			kp, err := c.GenerateKeyPair()
			require.NoError(t, err)

			for _, msg := range [][]byte{{0x00}, []byte("hello"), kp.PublicKey, make([]byte, 4096)} {
				sig, err := c.Sign(kp.PrivateKey, msg)
				require.NoError(t, err)
				require.Len(t, sig, domain.SignatureSize)

				ok, err := c.Verify(kp.PublicKey, msg, sig, domain.FullVerification)
				require.NoError(t, err)
				assert.True(t, ok)

				ok, err = c.Verify(kp.PublicKey[1:], msg, sig, domain.FullVerification)
				require.NoError(t, err)
				assert.True(t, ok, "bare public key")
			}
		})
	}
}

func TestSign_CrossStrategy(t *testing.T) {
	native := crypto.New(crypto.WithStrategy(crypto.StrategyNative))
	software := crypto.New(crypto.WithStrategy(crypto.StrategySoftware))

	kp, err := native.GenerateKeyPair()
	require.NoError(t, err)
	msg := []byte("signed pre-key")

	sig, err := native.Sign(kp.PrivateKey, msg)
	require.NoError(t, err)
	ok, err := software.Verify(kp.PublicKey, msg, sig, domain.FullVerification)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_IsRandomized(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)
	a, err := c.Sign(kp.PrivateKey, []byte("m"))
	require.NoError(t, err)
	b, err := c.Sign(kp.PrivateKey, []byte("m"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_BitFlipsFail(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)
	msg := []byte("flip me")
	sig, err := c.Sign(kp.PrivateKey, msg)
	require.NoError(t, err)

	for bit := 0; bit < len(sig)*8; bit++ {
		bad := append([]byte(nil), sig...)
		bad[bit/8] ^= 1 << (bit % 8)
		ok, err := c.Verify(kp.PublicKey, msg, bad, domain.FullVerification)
		require.NoError(t, err, "bit %d", bit)
		require.False(t, ok, "bit %d", bit)
	}
}

func TestVerify_WrongKeyOrMessage(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)
	other, err := c.GenerateKeyPair()
	require.NoError(t, err)
	sig, err := c.Sign(kp.PrivateKey, []byte("a"))
	require.NoError(t, err)

	ok, err := c.Verify(other.PublicKey, []byte("a"), sig, domain.FullVerification)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Verify(kp.PublicKey, []byte("b"), sig, domain.FullVerification)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_TrustOnFirstUseSkipsCheck(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)

	ok, err := c.Verify(kp.PublicKey, []byte("anything"), make([]byte, 64), domain.TrustOnFirstUse)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Verify(kp.PublicKey, []byte("anything"), make([]byte, 64), domain.FullVerification)
	require.NoError(t, err)
	assert.False(t, ok)

	// Structural checks still apply.
	_, err = c.Verify(kp.PublicKey, []byte("anything"), make([]byte, 63), domain.TrustOnFirstUse)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerify_StructuralErrors(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)
	sig, err := c.Sign(kp.PrivateKey, []byte("m"))
	require.NoError(t, err)

	_, err = c.Verify(kp.PublicKey[:31], []byte("m"), sig, domain.FullVerification)
	assert.ErrorIs(t, err, domain.ErrInvalidPublicKey)
	_, err = c.Verify(kp.PublicKey, nil, sig, domain.FullVerification)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
	_, err = c.Verify(kp.PublicKey, []byte("m"), sig[:63], domain.FullVerification)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	_, err = c.Verify(kp.PublicKey, []byte("m"), sig, domain.VerifyMode(7))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSign_Errors(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)

	_, err = c.Sign(kp.PrivateKey[:31], []byte("m"))
	assert.ErrorIs(t, err, domain.ErrInvalidPrivateKey)
	_, err = c.Sign(kp.PrivateKey, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)
	_, err = c.Sign(kp.PrivateKey, []byte{})
	assert.ErrorIs(t, err, domain.ErrInvalidMessage)

	broken := crypto.New(crypto.WithRandom(iotest.ErrReader(errors.New("no entropy"))))
	_, err = broken.Sign(kp.PrivateKey, []byte("m"))
	assert.ErrorIs(t, err, domain.ErrRandomnessUnavailable)
}

// Signatures must interoperate with the libsignal Curve25519 implementation.
func TestSign_InteropWithLibsignal(t *testing.T) {
	c := crypto.Default()
	kp, err := c.GenerateKeyPair()
	require.NoError(t, err)
	msg := []byte("interop")

	ours, err := c.Sign(kp.PrivateKey, msg)
	require.NoError(t, err)
	assert.True(t, ecc.VerifySignature(ecc.NewDjbECPublicKey([32]byte(kp.PublicKey[1:])), msg, [64]byte(ours)))

	theirs := ecc.CalculateSignature(ecc.NewDjbECPrivateKey([32]byte(kp.PrivateKey)), msg)
	ok, err := c.Verify(kp.PublicKey, msg, theirs[:], domain.FullVerification)
	require.NoError(t, err)
	assert.True(t, ok)
}
