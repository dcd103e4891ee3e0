// Package prekey builds signed pre-keys and one-time pre-keys for X3DH
// bootstrap and assembles the public bundle peers fetch.
//
// Rotation and consumption policy belong to callers; this package only
// generates on request and, when given stores, persists what it generated.
package prekey
