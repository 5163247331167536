// internal/cli/patch.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arc-language/layerslim"
)

var (
	patchOutput  string
	patchInPlace bool
	patchCaching bool
	patchBinary  string
)

var patchCmd = &cobra.Command{
	Use:   "patch-loader <loaders.py>",
	Short: "Patch a botocore loaders.py",
	Long: `Rewrite a botocore loaders.py so that directory scans are cached and,
with --binary, model files are read in a binary encoding.

Examples:
  layerslim patch-loader loaders.py
  layerslim patch-loader loaders.py --binary pickle -o patched.py
  layerslim patch-loader site-packages/botocore/loaders.py --in-place`,
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().StringVarP(&patchOutput, "output", "o", "", "write the result here instead of stdout")
	patchCmd.Flags().BoolVar(&patchInPlace, "in-place", false, "rewrite the input file")
	patchCmd.Flags().BoolVar(&patchCaching, "caching", true, "cache service directory scans")
	patchCmd.Flags().StringVar(&patchBinary, "binary", "", "read models with this codec")
}

func runPatch(cmd *cobra.Command, args []string) error {
	opts := layerslim.PatchOptions{Caching: patchCaching}
	if patchBinary != "" {
		c, err := lookupCodec(patchBinary)
		if err != nil {
			return err
		}
		opts.Binary = c
	}

	m, err := newManager(context.Background())
	if err != nil {
		return err
	}

	path := args[0]
	if patchInPlace {
		if err := m.PatchLoaderFile(path, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Patched %s\n", path)
		return nil
	}

	fs := afero.NewOsFs()
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := m.PatchLoader(string(src), opts)
	if err != nil {
		return err
	}
	if patchOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if err := afero.WriteFile(fs, patchOutput, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", patchOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", patchOutput)
	return nil
}
