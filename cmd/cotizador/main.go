// Package main is the entry point for the cotizador CLI.
package main

import (
	"os"

	"github.com/ehc32/Cotizador-V1/cmd/cotizador/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
