/**
 * @description
 * fuelbi: operator CLI for the pricing dashboard.
 * Archives snapshots to SQLite, exports comparison tables as CSV and manages
 * dashboard accounts.
 *
 * @dependencies
 * - github.com/spf13/cobra: command tree
 * - github.com/spf13/pflag: shared flag sets
 */

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:           "fuelbi",
	Short:         "Operator tools for the fuel pricing dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Upper bound for database work")

	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newUserCmd())
}

// filterFlags are the comparison filters shared by commands that build tables
type filterFlags struct {
	permits  []string
	products []string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&f.permits, "permit", "p", nil, "Permit id substring (repeatable or comma separated)")
	fs.StringSliceVar(&f.products, "product", []string{"regular"}, "Products to include: regular, premium, diesel")
}
