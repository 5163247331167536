// internal/cli/build.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/arc-language/layerslim"
	"github.com/arc-language/layerslim/pkg/codec"
)

var (
	buildName     string
	buildVersion  string
	buildServices []string
	buildCodec    string
	buildPack     bool
)

var buildCmd = &cobra.Command{
	Use:   "build [profile...]",
	Short: "Build one or more layers",
	Long: `Build layers from named profiles, or a single layer described by flags.

Examples:
  layerslim build serverless-basics sf-resume
  layerslim build --name stripped --services iam,s3,dynamodb,sts,sqs,sns
  layerslim build --name all-pickled --codec pickle --pack
  layerslim build --name pinned --boto3-version 1.18.43`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildName, "name", "", "layer name when building from flags")
	buildCmd.Flags().StringVar(&buildVersion, "boto3-version", "", "boto3 version to install (default latest)")
	buildCmd.Flags().StringSliceVar(&buildServices, "services", nil, "services to keep (default all)")
	buildCmd.Flags().StringVar(&buildCodec, "codec", "", "convert models with this codec: json, "+strings.Join(codec.Available(), ", "))
	buildCmd.Flags().BoolVar(&buildPack, "pack", false, "write a tar.xz archive and compute the layer identity")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(args) == 0 && buildName == "" {
		return fmt.Errorf("either a profile name or --name is required")
	}

	m, err := newManager(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Runtime: %s\n", m.Runtime())

	var requests []*layerslim.Request
	var extras [][]string
	for _, name := range args {
		p, err := m.Profiles().Load(name)
		if err != nil {
			return err
		}
		req, err := m.RequestFromProfile(p)
		if err != nil {
			return err
		}
		if err := applyBuildFlags(req); err != nil {
			return err
		}
		requests = append(requests, req)
		extras = append(extras, p.Extras)
	}
	if buildName != "" && len(args) == 0 {
		req := &layerslim.Request{Name: buildName}
		if config.Codec != "" {
			c, err := lookupCodec(config.Codec)
			if err != nil {
				return err
			}
			req.Codec = c
		}
		if err := applyBuildFlags(req); err != nil {
			return err
		}
		requests = append(requests, req)
		extras = append(extras, nil)
	}

	for i, req := range requests {
		fmt.Fprintf(out, "\nBuilding %s...\n", req.Name)
		res, err := m.Build(ctx, req, extras[i]...)
		if err != nil {
			return err
		}
		printResult(cmd, res)
	}
	return nil
}

// applyBuildFlags lets explicitly set flags override a request
func applyBuildFlags(req *layerslim.Request) error {
	if buildVersion != "" {
		req.Boto3Version = buildVersion
	}
	if len(buildServices) > 0 {
		req.Services = buildServices
	}
	if buildCodec != "" {
		c, err := lookupCodec(buildCodec)
		if err != nil {
			return err
		}
		req.Codec = c
	}
	if buildPack {
		req.Pack = true
	}
	return nil
}

// lookupCodec resolves a codec name; "json" and "none" keep the models as JSON
func lookupCodec(name string) (codec.Codec, error) {
	switch name {
	case "json", "none":
		return nil, nil
	}
	return codec.Lookup(name)
}

func printResult(cmd *cobra.Command, res *layerslim.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Built %s\n", res.Root)
	for _, s := range res.Stages {
		fmt.Fprintf(out, "  %-10s %s\n", s.Name, units.HumanSize(float64(s.Size)))
	}
	fmt.Fprintf(out, "  Layer:       %s\n", res.LayerName)
	fmt.Fprintf(out, "  Parameter:   %s\n", res.ParameterName)
	fmt.Fprintf(out, "  Description: %s\n", res.Description)
	if res.Archive != "" {
		fmt.Fprintf(out, "  Archive:     %s\n", res.Archive)
		fmt.Fprintf(out, "  Identity:    %s\n", res.Identity)
	}
}
