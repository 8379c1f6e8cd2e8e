// Package main provides the probnum CLI.
package main

import (
	"os"

	"github.com/mahdi-shafiei/probnum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
