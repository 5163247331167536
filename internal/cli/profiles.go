// internal/cli/profiles.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/layerslim/pkg/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List layer profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show a layer profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

func init() {
	profilesCmd.AddCommand(profilesShowCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	reg := profile.New(config.ProfilesDir)
	names, err := reg.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		p, err := reg.Load(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %s\n", name, p.Description)
	}
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	p, err := profile.New(config.ProfilesDir).Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(out, "boto3:       %s\n", orDefault(p.Boto3Version, "latest"))
	fmt.Fprintf(out, "Codec:       %s\n", orDefault(p.Codec, "json"))
	if len(p.Services) == 0 {
		fmt.Fprintf(out, "Services:    all\n")
	} else {
		fmt.Fprintf(out, "Services:    %s\n", strings.Join(p.Services, ", "))
	}
	if len(p.Extras) > 0 {
		fmt.Fprintf(out, "Extras:      %s\n", strings.Join(p.Extras, ", "))
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
