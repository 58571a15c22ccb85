package main

import (
	"os"

	"primarectl/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
