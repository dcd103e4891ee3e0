// Package crypto implements the Curve25519 primitives used by signalkeys.
//
// Contents
//
//   - Key format conversion between bare points, 33-byte wire form and the
//     PKCS #8 / SPKI DER containers (ToWireForm, ToRawForm, ToPKCS8, ToSPKI)
//   - X25519 key generation and agreement behind a Curve, which picks a
//     native (crypto/ecdh) or software (edwards25519, x/crypto/curve25519)
//     path once at construction (New, Default)
//   - Curve25519 signatures made with the X25519 private scalar itself, so
//     one identity key both signs and agrees (Sign, Verify)
//   - Scalar clamping helpers (Clamp, Unclamp), fingerprints and best-effort
//     wiping (Fingerprint, Wipe)
//
// # Notes
//
// Both paths return byte-identical results for the same inputs. Native
// failures are absorbed and retried in software; only caller errors and
// randomness failures surface, as the sentinel errors in internal/domain.
package crypto
