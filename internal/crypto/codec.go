package crypto

import (
	"bytes"
	"fmt"

	"signalkeys/internal/domain"
)

// DER prefixes for X25519 keys (RFC 8410, OID 1.3.101.110, no parameters).
var (
	pkcs8Prefix = [16]byte{0x30, 0x2e, 0x02, 0x01, 0x00, 0x30, 0x05, 0x06, 0x03, 0x2b, 0x65, 0x6e, 0x04, 0x22, 0x04, 0x20}
	spkiPrefix  = [12]byte{0x30, 0x2a, 0x30, 0x05, 0x06, 0x03, 0x2b, 0x65, 0x6e, 0x03, 0x21, 0x00}
)

// ToWireForm prefixes a raw 32-byte point with the DJB type byte.
func ToWireForm(raw []byte) ([]byte, error) {
	if len(raw) != domain.RawPublicKeySize {
		return nil, fmt.Errorf("%w: wire form needs a %d-byte point, got %d",
			domain.ErrInvalidKeyFormat, domain.RawPublicKeySize, len(raw))
	}
	out := make([]byte, 0, domain.PublicKeySize)
	out = append(out, domain.KeyTypeDJB)
	return append(out, raw...), nil
}

// ToRawForm returns the bare 32-byte point for a wire-form or bare key.
// It is idempotent.
func ToRawForm(buf []byte) ([]byte, error) {
	switch {
	case len(buf) == domain.PublicKeySize && buf[0] == domain.KeyTypeDJB:
		return append([]byte(nil), buf[1:]...), nil
	case len(buf) == domain.RawPublicKeySize:
		return append([]byte(nil), buf...), nil
	default:
		return nil, fmt.Errorf("%w: %d-byte public key", domain.ErrInvalidKeyFormat, len(buf))
	}
}

// ToPKCS8 wraps a raw scalar in a PKCS #8 DER container.
func ToPKCS8(raw []byte) ([]byte, error) {
	return wrapDER(pkcs8Prefix[:], raw)
}

// FromPKCS8 extracts the raw scalar from a PKCS #8 container produced for X25519.
func FromPKCS8(der []byte) ([]byte, error) {
	return unwrapDER(pkcs8Prefix[:], der)
}

// ToSPKI wraps a raw point in a SubjectPublicKeyInfo DER container.
func ToSPKI(raw []byte) ([]byte, error) {
	return wrapDER(spkiPrefix[:], raw)
}

// FromSPKI extracts the raw point from an X25519 SubjectPublicKeyInfo.
func FromSPKI(der []byte) ([]byte, error) {
	return unwrapDER(spkiPrefix[:], der)
}

func wrapDER(prefix, raw []byte) ([]byte, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: DER body must be 32 bytes, got %d", domain.ErrInvalidKeyFormat, len(raw))
	}
	out := make([]byte, 0, len(prefix)+32)
	out = append(out, prefix...)
	return append(out, raw...), nil
}

func unwrapDER(prefix, der []byte) ([]byte, error) {
	if len(der) != len(prefix)+32 || !bytes.HasPrefix(der, prefix) {
		return nil, fmt.Errorf("%w: unexpected DER container (%d bytes)", domain.ErrInvalidKeyFormat, len(der))
	}
	return append([]byte(nil), der[len(prefix):]...), nil
}
