package main

import (
	"os"

	"signalkeys/cmd/signalkeys/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
