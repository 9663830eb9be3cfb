// Version command for the propcat CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the propcat release version.
const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			return printJSON(map[string]string{"version": version})
		}
		fmt.Printf("propcat v%s\n", version)
		return nil
	},
}
