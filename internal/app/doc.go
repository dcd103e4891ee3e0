// Package app wires application dependencies for the CLI.
//
// It builds the curve, the identity and pre-key stores and the services
// from Config, exposing them via the Wire struct for commands to use.
package app
