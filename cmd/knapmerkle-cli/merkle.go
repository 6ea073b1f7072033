package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/merkle"
	"github.com/BackendStack21/knapsack-merkle-go/merkle/hashers"
)

func (c *cli) merkleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merkle",
		Short: "Merkle root operations over line-oriented record files",
	}
	cmd.PersistentFlags().String("hasher", "", "Hash algorithm: "+strings.Join(hashers.IDs(), ", "))
	cmd.AddCommand(
		c.rootCmd(),
		c.matchCmd(),
		c.proofCmd(),
		c.verifyCmd(),
	)
	return cmd
}

// builder returns a Builder for the --hasher flag or the configured hasher.
func (c *cli) builder(cmd *cobra.Command) (*merkle.Builder, error) {
	id := c.conf.Merkle.Hasher
	if f := cmd.Flags().Lookup("hasher"); f != nil && f.Changed {
		id = f.Value.String()
	}
	return merkle.NewBuilder(id)
}

func readRecordFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return merkle.ReadRecords(f)
}

func (c *cli) rootCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Print the Merkle root of a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.builder(cmd)
			if err != nil {
				return err
			}
			records, err := readRecordFile(input)
			if err != nil {
				return err
			}
			start := time.Now()
			root, ok := b.BuildRoot(records)
			if c.timing {
				c.logger.Info("merkle root", "records", len(records), "elapsed", time.Since(start))
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Record file, one record per line")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

type fileRoot struct {
	path string
	root string
	ok   bool
}

func (c *cli) matchCmd() *cobra.Command {
	var target string
	var jobs int
	cmd := &cobra.Command{
		Use:   "match [--target hex] file...",
		Short: "Compute the roots of several files and report those matching a target",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.builder(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("target") {
				target = c.conf.Merkle.Target
			}
			if !cmd.Flags().Changed("jobs") {
				jobs = c.conf.Merkle.Jobs
			}
			if jobs < 1 {
				return fmt.Errorf("--jobs must be positive, got %d", jobs)
			}

			results := make([]fileRoot, len(args))
			g := new(errgroup.Group)
			g.SetLimit(jobs)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					records, err := readRecordFile(path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					root, ok := b.BuildRoot(records)
					results[i] = fileRoot{path: path, root: root, ok: ok}
					c.logger.Debug("computed root", "file", path, "records", len(records))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				root := r.root
				if !r.ok {
					root = "empty"
				}
				fmt.Fprintf(out, "File: %s -> Merkle Root: %s\n", r.path, root)
				if r.ok && target != "" && merkle.MatchRoot(r.root, target) {
					fmt.Fprintf(out, "Match found! The file with the target Merkle root is: %s\n", r.path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Root to look for (case-insensitive hex)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files hashed concurrently")
	return cmd
}

func (c *cli) proofCmd() *cobra.Command {
	var input, output string
	var index int
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Build an inclusion proof for one record of a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.builder(cmd)
			if err != nil {
				return err
			}
			records, err := readRecordFile(input)
			if err != nil {
				return err
			}
			proof, err := b.Prove(records, index)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(proof, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, data, output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Record file, one record per line")
	cmd.Flags().IntVar(&index, "index", 0, "Zero-based record index")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the proof to this file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (c *cli) verifyCmd() *cobra.Command {
	var root, record, proofFile string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an inclusion proof against a root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInputFile(proofFile)
			if err != nil {
				return err
			}
			var proof knapmerkle.MerkleProof
			if err := json.Unmarshal(data, &proof); err != nil {
				return fmt.Errorf("failed to parse proof: %w", err)
			}
			hasher := proof.HasherID
			if f := cmd.Flags().Lookup("hasher"); f != nil && f.Changed {
				hasher = f.Value.String()
			}
			b, err := merkle.NewBuilder(hasher)
			if err != nil {
				return err
			}
			if err := b.VerifyProof(root, record, &proof); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Proof is valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Expected Merkle root")
	cmd.Flags().StringVar(&record, "record", "", "Record to check")
	cmd.Flags().StringVarP(&proofFile, "proof", "p", "", "Proof file")
	_ = cmd.MarkFlagRequired("root")
	_ = cmd.MarkFlagRequired("proof")
	return cmd
}
