// internal/cli/verify.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyType string

var verifyCmd = &cobra.Command{
	Use:   "verify <layer>",
	Short: "List the services a built layer exposes",
	Long: `Walk a built layer's botocore data the way its patched loader does and
print the services that have a model of the given type.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyType, "type", "service-2", "model type name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	m, err := newManager(context.Background())
	if err != nil {
		return err
	}

	name := args[0]
	res, err := m.Manifest(name)
	if err != nil {
		return err
	}
	services, err := m.Verify(name, verifyType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Layer: %s (%s)\n", res.LayerName, res.Description)
	for _, s := range services {
		fmt.Fprintf(out, "  %s\n", s)
	}
	fmt.Fprintf(out, "✓ %d services with %s\n", len(services), verifyType)
	return nil
}
