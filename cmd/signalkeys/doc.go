// Command signalkeys manages a local X25519 identity and its pre-keys.
package main
