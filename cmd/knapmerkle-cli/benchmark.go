package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/knapsack"
)

func (c *cli) benchmarkCmd() *cobra.Command {
	var iterations int
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Run performance benchmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.paramSet(cmd)
			if err != nil {
				return err
			}
			if iterations < 1 {
				iterations = 1
			}
			b, err := c.builder(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "knapmerkle Benchmark Results\n")
			fmt.Fprintf(out, "============================\n")
			fmt.Fprintf(out, "Parameter Set: %s\n", name)
			fmt.Fprintf(out, "Iterations: %d\n\n", iterations)

			fmt.Fprintln(out, "Knapsack Cryptosystem")
			fmt.Fprintln(out, "---------------------")

			var keygenTotal time.Duration
			var kp *knapmerkle.KnapsackKeyPair
			for i := 0; i < iterations; i++ {
				start := time.Now()
				kp, err = knapsack.GenerateKeyPair(name)
				keygenTotal += time.Since(start)
				if err != nil {
					return fmt.Errorf("keygen: %w", err)
				}
			}
			fmt.Fprintf(out, "  KeyGen:  %v (avg)\n", keygenTotal/time.Duration(iterations))

			message := make([]byte, kp.Params.MaxMessageBytes())
			for i := range message {
				message[i] = 'a' + byte(i%26)
			}
			var encryptTotal time.Duration
			ciphertext, err := knapsack.Encrypt(&kp.PublicKey, message)
			if err != nil {
				return fmt.Errorf("encrypt: %w", err)
			}
			for i := 0; i < iterations; i++ {
				start := time.Now()
				_, err := knapsack.Encrypt(&kp.PublicKey, message)
				encryptTotal += time.Since(start)
				if err != nil {
					return fmt.Errorf("encrypt: %w", err)
				}
			}
			fmt.Fprintf(out, "  Encrypt: %v (avg)\n", encryptTotal/time.Duration(iterations))

			var decryptTotal time.Duration
			for i := 0; i < iterations; i++ {
				start := time.Now()
				_, err := knapsack.Decrypt(&kp.SecretKey, ciphertext)
				decryptTotal += time.Since(start)
				if err != nil {
					return fmt.Errorf("decrypt: %w", err)
				}
			}
			fmt.Fprintf(out, "  Decrypt: %v (avg)\n\n", decryptTotal/time.Duration(iterations))

			fmt.Fprintf(out, "Merkle Root (%s, 10000 records)\n", b.HasherID())
			fmt.Fprintln(out, "-------------------------------")
			records := make([]string, 10000)
			for i := range records {
				records[i] = "record-" + strconv.Itoa(i)
			}
			var rootTotal time.Duration
			for i := 0; i < iterations; i++ {
				start := time.Now()
				b.BuildRoot(records)
				rootTotal += time.Since(start)
			}
			fmt.Fprintf(out, "  BuildRoot: %v (avg)\n\n", rootTotal/time.Duration(iterations))
			fmt.Fprintln(out, "Benchmark complete!")
			return nil
		},
	}
	cmd.Flags().String("params", "", "Parameter set: 128, 640 or 2048")
	cmd.Flags().String("hasher", "", "Merkle hash algorithm")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "Iterations per operation")
	return cmd
}
