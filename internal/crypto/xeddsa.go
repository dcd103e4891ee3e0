package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
	"github.com/hdevalence/ed25519consensus"

	"signalkeys/internal/domain"
)

// signBit is where a signature carries the sign of the signer's Edwards x-coordinate.
const signBit = 0x80

// nonceDiversifier keeps the nonce hash domain apart from Ed25519 key expansion.
var nonceDiversifier = [32]byte{
	0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// Sign signs message with an X25519 private scalar.
//
// The scalar is used directly as the Edwards signing scalar; the sign bit of
// the matching Edwards public key goes into the top bit of the last byte so
// a verifier holding only the Montgomery key can rebuild it.
func (c *Curve) Sign(privateKey, message []byte) ([]byte, error) {
	if len(privateKey) != domain.PrivateKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d",
			domain.ErrInvalidPrivateKey, domain.PrivateKeySize, len(privateKey))
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidMessage)
	}

	var z [64]byte
	if err := c.readRandom(z[:]); err != nil {
		return nil, err
	}
	defer Wipe(z[:])

	k := Clamp([32]byte(privateKey))
	defer Wipe(k[:])
	a, err := new(edwards25519.Scalar).SetBytesWithClamping(k[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrivateKey, err)
	}
	edPub := new(edwards25519.Point).ScalarBaseMult(a).Bytes()

	h := sha512.New()
	h.Write(nonceDiversifier[:])
	h.Write(k[:])
	h.Write(message)
	h.Write(z[:])
	r, err := new(edwards25519.Scalar).SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(R)
	h.Write(edPub)
	h.Write(message)
	hram, err := new(edwards25519.Scalar).SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}
	s := new(edwards25519.Scalar).MultiplyAdd(hram, a, r)

	sig := make([]byte, 0, domain.SignatureSize)
	sig = append(sig, R...)
	sig = append(sig, s.Bytes()...)
	sig[63] |= edPub[31] & signBit
	return sig, nil
}

// Verify checks signature over message against a Montgomery public key.
//
// Structural problems are errors in every mode. With domain.TrustOnFirstUse
// a well-formed signature is accepted unchecked; with
// domain.FullVerification a signature that does not verify returns false
// and no error.
func (c *Curve) Verify(publicKey, message, signature []byte, mode domain.VerifyMode) (bool, error) {
	pub, err := ToRawForm(publicKey)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidPublicKey, err)
	}
	if len(message) == 0 {
		return false, fmt.Errorf("%w: empty message", domain.ErrInvalidMessage)
	}
	if len(signature) != domain.SignatureSize {
		return false, fmt.Errorf("%w: want %d bytes, got %d",
			domain.ErrInvalidSignature, domain.SignatureSize, len(signature))
	}

	switch mode {
	case domain.TrustOnFirstUse:
		return true, nil
	case domain.FullVerification:
	default:
		return false, fmt.Errorf("%w: unknown verify mode %v", domain.ErrInvalidArgument, mode)
	}

	edPub, ok := montgomeryToEdwards(pub, signature[63]&signBit)
	if !ok {
		return false, nil
	}
	sig := append([]byte(nil), signature...)
	sig[63] &^= signBit
	return ed25519consensus.Verify(edPub, message, sig), nil
}

// montgomeryToEdwards maps u to the Edwards point with y = (u-1)/(u+1) and
// the given x sign. Non-canonical u encodings are rejected.
func montgomeryToEdwards(u []byte, xSign byte) (ed25519.PublicKey, bool) {
	masked := append([]byte(nil), u...)
	masked[31] &= 0x7f

	var mont field.Element
	if _, err := mont.SetBytes(masked); err != nil {
		return nil, false
	}
	if !bytes.Equal(mont.Bytes(), masked) {
		return nil, false
	}

	one := new(field.Element).One()
	num := new(field.Element).Subtract(&mont, one)
	den := new(field.Element).Add(&mont, one)
	y := new(field.Element).Multiply(num, new(field.Element).Invert(den))

	out := y.Bytes()
	out[31] |= xSign
	return ed25519.PublicKey(out), true
}
