// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the layerslim release
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "layerslim version %s\n", Version)
		fmt.Fprintln(out, "boto3 Lambda layer slimmer")
		fmt.Fprintln(out, "https://github.com/arc-language/layerslim")
	},
}
