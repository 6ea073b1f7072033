// Package main provides the knapmerkle-cli command line interface for the
// knapsack cryptosystem and the Merkle root builder.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
