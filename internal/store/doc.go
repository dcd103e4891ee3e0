// Package store persists signalkeys state.
//
// The identity account is sealed with a passphrase-derived key before it
// touches disk or the OS keyring. Pre-keys are kept as JSON files under the
// configured home directory with 0600 permissions and replaced atomically.
// All stores are safe for concurrent use via internal locking.
//
// The package includes:
//   - IdentityFileStore and IdentityKeyringStore (domain.IdentityStore)
//   - PreKeyFileStore (domain.PreKeyStore)
//   - WriteBundle / ReadBundle for exchanging public bundles as files
package store
