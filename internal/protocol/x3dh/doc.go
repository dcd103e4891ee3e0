// Package x3dh derives an X3DH root key from a published pre-key bundle.
//
// It is the first consumer of the curve primitives: every Diffie-Hellman
// goes through domain.Curve.SharedSecret and the signed pre-key is checked
// with domain.Curve.Verify in full verification mode.
//
// # Flows
//
// Initiator:
//  1. Verify the signed pre-key signature against the bundle identity key.
//  2. Generate an ephemeral key pair.
//  3. Compute DH(IKa, SPKb), DH(EKa, IKb), DH(EKa, SPKb) and, when the
//     bundle offers one, DH(EKa, OPKb).
//  4. HKDF-SHA256 over 0xFF*32 || DH1 || DH2 || DH3 [|| DH4].
//
// Responder mirrors the DH set with its private halves and arrives at the
// same root key. Accept does the same from a domain.PreKeyStore and deletes
// the one-time pre-key it used.
//
// # Errors
//
// ErrBadSignedPreKey is returned when the signed pre-key signature does not
// verify. Structural problems surface as the domain sentinels.
package x3dh
