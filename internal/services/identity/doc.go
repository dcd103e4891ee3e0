// Package identity creates the account-level identity: the long-lived
// identity key pair and the registration id.
//
// The generators are pure functions of the Curve and a secure random
// source. Provision additionally enforces passphrase policy and persists
// the result via a domain.IdentityStore.
package identity
