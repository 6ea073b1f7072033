package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/config"
	"github.com/BackendStack21/knapsack-merkle-go/core"
	"github.com/BackendStack21/knapsack-merkle-go/knapsack"
)

func (c *cli) knapsackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "knapsack",
		Aliases: []string{"mh"},
		Short:   "Merkle-Hellman knapsack cryptosystem operations",
	}
	cmd.AddCommand(
		c.keygenCmd(),
		c.encryptCmd(),
		c.decryptCmd(),
		c.demoCmd(),
	)
	return cmd
}

// paramSet resolves the --params flag, falling back to the configured set.
func (c *cli) paramSet(cmd *cobra.Command) (knapmerkle.ParamSet, error) {
	value := c.conf.Knapsack.Params
	if f := cmd.Flags().Lookup("params"); f != nil && f.Changed {
		value = f.Value.String()
	}
	return core.ParseParamSet(value)
}

// truncate reports whether over-long messages are truncated instead of rejected.
func (c *cli) truncate(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("truncate"); f != nil && f.Changed {
		return f.Value.String() == "true"
	}
	return c.conf.Knapsack.Overflow == config.OverflowTruncate
}

func (c *cli) encrypt(pk *knapmerkle.KnapsackPublicKey, msg []byte, truncate bool) (*big.Int, error) {
	if truncate {
		if len(msg)*8 > len(pk.B) {
			c.logger.Warn("message truncated", "bytes", len(msg), "max_bytes", len(pk.B)/8)
		}
		return knapsack.EncryptTruncated(pk, msg)
	}
	return knapsack.Encrypt(pk, msg)
}

func (c *cli) keygenCmd() *cobra.Command {
	var seedHex, output string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.paramSet(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			var kp *knapmerkle.KnapsackKeyPair
			if seedHex != "" {
				seed, err := hex.DecodeString(seedHex)
				if err != nil {
					return fmt.Errorf("invalid seed: %w", err)
				}
				params, err := core.GetParams(name)
				if err != nil {
					return err
				}
				kp, err = knapsack.GenerateKeyPairFromSeed(params, seed)
				if err != nil {
					return err
				}
			} else {
				kp, err = knapsack.GenerateKeyPair(name)
				if err != nil {
					return err
				}
			}
			if c.timing {
				c.logger.Info("key generation", "elapsed", time.Since(start))
			}

			export := newKeyPairExport(kp, c.conf.Knapsack.Format)
			data, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return err
			}
			c.logger.Debug("generated key pair",
				"params", name,
				"fingerprint", export.Fingerprint,
				"length", kp.Params.Length,
				"max_message_bytes", kp.Params.MaxMessageBytes(),
				"modulus_bits", kp.SecretKey.Modulus.BitLen())
			return writeOutput(cmd, data, output)
		},
	}
	cmd.Flags().String("params", "", "Parameter set: 128, 640 or 2048")
	cmd.Flags().StringVar(&seedHex, "seed", "", "Hex seed (at least 32 bytes) for deterministic keys")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the key pair to this file")
	return cmd
}

func (c *cli) encryptCmd() *cobra.Command {
	var keyFile, message, input, output string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message into a single integer",
		Long: `Encrypt a message with the public key of a key pair file. The message is
taken from --message, from --input, or from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := loadKeyPair(keyFile)
			if err != nil {
				return err
			}

			var msg []byte
			switch {
			case cmd.Flags().Changed("message"):
				msg = []byte(message)
			case input != "":
				if msg, err = readInputFile(input); err != nil {
					return err
				}
			default:
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				msg = []byte(line)
			}

			truncate := c.truncate(cmd)
			start := time.Now()
			ct, err := c.encrypt(&kp.PublicKey, msg, truncate)
			if err != nil {
				return err
			}
			if c.timing {
				c.logger.Info("encryption", "elapsed", time.Since(start))
			}

			if output == "" {
				for _, line := range chunk(knapsack.FormatCiphertext(ct), chunkWidth) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}
			data, err := json.MarshalIndent(CiphertextExport{
				Params:       string(kp.Params.Name),
				Ciphertext:   knapsack.FormatCiphertext(ct),
				MessageBytes: len(msg),
				Truncated:    truncate && len(msg) > kp.Params.MaxMessageBytes(),
			}, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, data, output)
		},
	}
	cmd.Flags().StringVarP(&keyFile, "keypair", "k", "", "Key pair file")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to encrypt")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read the message from this file")
	cmd.Flags().Bool("truncate", false, "Drop message bytes beyond the key capacity instead of failing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the ciphertext as JSON to this file")
	_ = cmd.MarkFlagRequired("keypair")
	return cmd
}

func (c *cli) decryptCmd() *cobra.Command {
	var keyFile, ctFile, value string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a ciphertext",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := loadKeyPair(keyFile)
			if err != nil {
				return err
			}

			text := value
			if ctFile != "" {
				if text, err = loadCiphertext(ctFile); err != nil {
					return err
				}
			}
			ct, err := knapsack.ParseCiphertext(text)
			if err != nil {
				return err
			}

			start := time.Now()
			pt, err := knapsack.Decrypt(&kp.SecretKey, ct)
			if err != nil {
				return err
			}
			if c.timing {
				c.logger.Info("decryption", "elapsed", time.Since(start))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pt))
			return err
		},
	}
	cmd.Flags().StringVarP(&keyFile, "keypair", "k", "", "Key pair file")
	cmd.Flags().StringVar(&ctFile, "ciphertext", "", "Ciphertext file (JSON or decimal text)")
	cmd.Flags().StringVar(&value, "value", "", "Decimal ciphertext")
	_ = cmd.MarkFlagRequired("keypair")
	cmd.MarkFlagsOneRequired("ciphertext", "value")
	cmd.MarkFlagsMutuallyExclusive("ciphertext", "value")
	return cmd
}

func (c *cli) demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate keys, then encrypt and decrypt one line of input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			name, err := c.paramSet(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Welcome to the Merkle-Hellman Knapsack Cryptosystem!")
			kp, err := knapsack.GenerateKeyPair(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Keys generated successfully!")

			in := cmd.InOrStdin()
			if isTerminal(in) {
				fmt.Fprint(out, "Enter a string and I will encrypt it as a single large integer: ")
			}
			message, err := readLine(in)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Clear text:")
			fmt.Fprintln(out, message)
			fmt.Fprintf(out, "Number of clear text bytes = %d\n", len(message))

			ct, err := c.encrypt(&kp.PublicKey, []byte(message), c.truncate(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Encrypted message:")
			for _, line := range chunk(knapsack.FormatCiphertext(ct), chunkWidth) {
				fmt.Fprintln(out, line)
			}

			pt, err := knapsack.Decrypt(&kp.SecretKey, ct)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Result of decryption:")
			fmt.Fprintln(out, string(pt))
			return nil
		},
	}
	cmd.Flags().String("params", "", "Parameter set: 128, 640 or 2048")
	cmd.Flags().Bool("truncate", false, "Drop message bytes beyond the key capacity instead of failing")
	return cmd
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
