package domain

import "errors"

var (
	// ErrInvalidPrivateKey is returned for private keys that are not 32 bytes.
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey is returned for public keys that are neither a bare
	// 32-byte point nor a 33-byte wire-form key, or that are low-order points.
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidKeyFormat is returned by the key codec for buffers it cannot convert.
	ErrInvalidKeyFormat = errors.New("invalid key format")
	// ErrInvalidMessage is returned when a message to sign or verify is empty.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrInvalidSignature is returned for signatures that are not 64 bytes.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidArgument is returned for malformed key ids or key pairs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRandomnessUnavailable is returned when the secure random source fails.
	ErrRandomnessUnavailable = errors.New("secure randomness unavailable")
)
