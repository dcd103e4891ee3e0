// Package domain defines the key material, prekey records and contracts
// shared across signalkeys. It holds plain types, sentinel errors and
// interfaces only; the curve arithmetic lives in internal/crypto.
package domain
