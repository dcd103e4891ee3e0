package domain

import "fmt"

const (
	// PrivateKeySize is the length of an X25519 private scalar.
	PrivateKeySize = 32
	// PublicKeySize is the length of a wire-form public key (type byte + u-coordinate).
	PublicKeySize = 33
	// RawPublicKeySize is the length of a bare Curve25519 u-coordinate.
	RawPublicKeySize = 32
	// SignatureSize is the length of a Curve25519 signature.
	SignatureSize = 64
	// KeyTypeDJB is the version byte that prefixes every wire-form public key.
	KeyTypeDJB byte = 0x05
)

// KeyPair is an X25519 key pair. PublicKey is always emitted in 33-byte wire
// form; PrivateKey is the 32-byte scalar.
type KeyPair struct {
	PublicKey  []byte `json:"public_key"`
	PrivateKey []byte `json:"private_key"`
}

// IdentityKeyPair is the long-lived key pair that roots an account's trust.
type IdentityKeyPair = KeyPair

// Validate reports whether kp has canonical shapes.
func (kp KeyPair) Validate() error {
	if len(kp.PrivateKey) != PrivateKeySize {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(kp.PrivateKey))
	}
	if len(kp.PublicKey) != PublicKeySize || kp.PublicKey[0] != KeyTypeDJB {
		return fmt.Errorf("%w: want %d-byte wire form", ErrInvalidPublicKey, PublicKeySize)
	}
	return nil
}

// Public returns a copy of the wire-form public key.
func (kp KeyPair) Public() []byte { return append([]byte(nil), kp.PublicKey...) }

// VerifyMode states the trust assumption a Verify call site makes.
type VerifyMode int

const (
	// FullVerification checks the signature. It is the zero value.
	FullVerification VerifyMode = iota
	// TrustOnFirstUse skips the signature check after structural validation.
	// Only use it for key material this account already established itself.
	TrustOnFirstUse
)

func (m VerifyMode) String() string {
	switch m {
	case FullVerification:
		return "full"
	case TrustOnFirstUse:
		return "trust-on-first-use"
	default:
		return fmt.Sprintf("VerifyMode(%d)", int(m))
	}
}
