// internal/cli/clean.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean [layer...]",
	Short: "Remove built layers",
	Long: `Remove built layers together with their checkpoints, archives and
manifests. With --all the whole output directory is removed.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "remove the whole output directory")
}

func runClean(cmd *cobra.Command, args []string) error {
	if !cleanAll && len(args) == 0 {
		return fmt.Errorf("no layers given (use --all to remove everything)")
	}

	m, err := newManager(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cleanAll {
		if err := m.Clean(""); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Removed %s\n", config.OutDir)
		return nil
	}
	for _, name := range args {
		if err := m.Clean(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Removed %s\n", name)
	}
	return nil
}
