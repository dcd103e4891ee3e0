package crypto_test

import (
	"bytes"
	"crypto/ecdh"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
)

func TestToRawForm_WireAndBareAgree(t *testing.T) {
	point := bytes.Repeat([]byte{0x42}, 32)
	wire, err := crypto.ToWireForm(point)
	require.NoError(t, err)
	require.Len(t, wire, domain.PublicKeySize)
	assert.Equal(t, domain.KeyTypeDJB, wire[0])

	fromWire, err := crypto.ToRawForm(wire)
	require.NoError(t, err)
	fromBare, err := crypto.ToRawForm(point)
	require.NoError(t, err)
	assert.Equal(t, point, fromWire)
	assert.Equal(t, point, fromBare)

	twice, err := crypto.ToRawForm(fromWire)
	require.NoError(t, err)
	assert.Equal(t, fromWire, twice, "ToRawForm must be idempotent")
}

func TestToRawForm_DoesNotAlias(t *testing.T) {
	point := bytes.Repeat([]byte{0x01}, 32)
	raw, err := crypto.ToRawForm(point)
	require.NoError(t, err)
	raw[0] = 0xff
	assert.Equal(t, byte(0x01), point[0])
}

func TestToRawForm_Rejects(t *testing.T) {
	badType := append([]byte{0x06}, bytes.Repeat([]byte{1}, 32)...)
	for name, buf := range map[string][]byte{
		"nil":        nil,
		"short":      make([]byte, 31),
		"long":       make([]byte, 34),
		"wrong type": badType,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := crypto.ToRawForm(buf)
			assert.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
		})
	}
}

func TestToWireForm_RejectsWrongLength(t *testing.T) {
	_, err := crypto.ToWireForm(make([]byte, 33))
	assert.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
}

func TestDERContainers_RoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x5a}, 32)

	pkcs8, err := crypto.ToPKCS8(raw)
	require.NoError(t, err)
	require.Len(t, pkcs8, 48)
	back, err := crypto.FromPKCS8(pkcs8)
	require.NoError(t, err)
	assert.Equal(t, raw, back)

	spki, err := crypto.ToSPKI(raw)
	require.NoError(t, err)
	require.Len(t, spki, 44)
	back, err = crypto.FromSPKI(spki)
	require.NoError(t, err)
	assert.Equal(t, raw, back)

	_, err = crypto.FromPKCS8(spki)
	assert.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
	_, err = crypto.FromSPKI(pkcs8)
	assert.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
}

func TestDERContainers_MatchX509(t *testing.T) {
	priv, err := ecdh.X25519().NewPrivateKey(bytes.Repeat([]byte{0x17}, 32))
	require.NoError(t, err)

	wantPriv, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	gotPriv, err := crypto.ToPKCS8(priv.Bytes())
	require.NoError(t, err)
	assert.Equal(t, wantPriv, gotPriv)

	wantPub, err := x509.MarshalPKIXPublicKey(priv.PublicKey())
	require.NoError(t, err)
	gotPub, err := crypto.ToSPKI(priv.PublicKey().Bytes())
	require.NoError(t, err)
	assert.Equal(t, wantPub, gotPub)
}

func TestFingerprint_IgnoresEncoding(t *testing.T) {
	point := bytes.Repeat([]byte{0x33}, 32)
	wire, err := crypto.ToWireForm(point)
	require.NoError(t, err)
	assert.Equal(t, crypto.Fingerprint(point), crypto.Fingerprint(wire))
	assert.Len(t, crypto.Fingerprint(wire), 20)
}
