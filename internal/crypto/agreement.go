package crypto

import (
	"crypto/ecdh"
	"crypto/x509"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"signalkeys/internal/domain"
)

// SharedSecret computes X25519(privateKey, peerPublicKey).
//
// peerPublicKey may be a 33-byte wire-form key or a bare 32-byte point. The
// result is the same 32 bytes whichever strategy runs, so a native peer and
// a software peer always agree.
func (c *Curve) SharedSecret(peerPublicKey, privateKey []byte) ([]byte, error) {
	if len(privateKey) != domain.PrivateKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d",
			domain.ErrInvalidPrivateKey, domain.PrivateKeySize, len(privateKey))
	}
	pub, err := ToRawForm(peerPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPublicKey, err)
	}

	if c.strategy == StrategyNative {
		secret, err := nativeAgreement(pub, privateKey)
		if err == nil {
			return secret, nil
		}
		// Low-order points also land here; the software path rejects them
		// with the caller-visible error.
		c.log.Debug("native agreement failed, falling back", "error", err)
	}

	secret, err := curve25519.X25519(privateKey, pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPublicKey, err)
	}
	return secret, nil
}

func nativeAgreement(rawPub, rawPriv []byte) ([]byte, error) {
	privDER, err := ToPKCS8(rawPriv)
	if err != nil {
		return nil, err
	}
	defer Wipe(privDER)
	pubDER, err := ToSPKI(rawPub)
	if err != nil {
		return nil, err
	}

	parsedPriv, err := x509.ParsePKCS8PrivateKey(privDER)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	priv, ok := parsedPriv.(*ecdh.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: PKCS #8 parsed as %T", errNativeUnavailable, parsedPriv)
	}
	parsedPub, err := x509.ParsePKIXPublicKey(pubDER)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	pub, ok := parsedPub.(*ecdh.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: SPKI parsed as %T", errNativeUnavailable, parsedPub)
	}

	secret, err := priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	return secret, nil
}
