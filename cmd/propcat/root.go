// Root command and global flags for the propcat CLI.
package main

import (
	"github.com/spf13/cobra"
)

var (
	// flagConfigDir is set by --config-dir.
	flagConfigDir string
	// flagDataDir is set by --data-dir.
	flagDataDir string
	// flagJSON switches command output to JSON.
	flagJSON bool
	// flagVerbose enables debug logging from the catalog backend.
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "propcat",
	Short: "propcat manages custom property types",
	Long: `propcat is a catalog for user-defined property types: enums with
optional bitflag packing, and classes composed of typed members. Types are
kept in a local catalog and exchanged with editors through property type
definition files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: .propcat)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: .propcat-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(newEnumCmd)
	rootCmd.AddCommand(newClassCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(revisionsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(genCmd)
}
