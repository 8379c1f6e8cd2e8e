// Package commands implements the probnum subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mahdi-shafiei/probnum/internal/config"
	"github.com/mahdi-shafiei/probnum/internal/problem"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	var showCov bool

	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Evaluate a random variable pipeline",
		Long: `Read a problem document, propagate the random variable through its steps
and print the resulting moments.

A document has a variable (normal or dirac) and a list of steps. Each step
holds exactly one of matmul, rmatmul, add, sub, rsub, mul, div, neg,
transpose or reshape. Operands are numbers, nested lists or operator
mappings (dense, eye, zeros, diag, scaled, kronecker, symmetric_kronecker).

Use "-" to read the document from standard input.`,
		Example: `  # Evaluate a problem and print a table
  probnum eval problem.yaml

  # Include the covariance matrix
  probnum eval problem.yaml --cov

  # Emit JSON
  probnum eval problem.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], showCov)
		},
	}

	cmd.Flags().BoolVar(&showCov, "cov", false, "Also print the covariance matrix (table output)")

	return cmd
}

func runEval(cmd *cobra.Command, path string, showCov bool) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	var (
		doc *problem.Document
		err error
	)
	if path == "-" {
		doc, err = problem.Decode(cmd.InOrStdin())
	} else {
		doc, err = problem.LoadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("loaded problem", "path", path, "steps", len(doc.Steps))

	res, err := problem.Evaluate(ctx, doc, logger)
	if err != nil {
		return err
	}

	r := &renderer{w: cmd.OutOrStdout(), precision: cfg.Precision}
	switch cfg.Output {
	case config.OutputYAML:
		return r.yaml(res)
	case config.OutputJSON:
		return r.json(res)
	default:
		return r.table(res, showCov)
	}
}
