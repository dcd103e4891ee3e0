// Package commands defines the signalkeys CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init         Provision the identity key pair and registration id
//   - fingerprint  Print the identity fingerprint
//   - prekeys      Generate and store a signed pre-key and one-time pre-keys
//   - bundle       Export the public pre-key bundle as JSON
//   - verify       Check the signed pre-key signature of a bundle file
//   - strategy     Report which X25519 implementation is in use
//   - version      Print build information
//
// # Configuration
//
// Flags override SIGNALKEYS_* environment variables, which override
// $HOME/.signalkeys/config.yaml. The root command resolves the settings,
// builds the logger and the dependency graph before any subcommand runs.
package commands
