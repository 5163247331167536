// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arc-language/layerslim"
	"github.com/arc-language/layerslim/pkg/core"
	"github.com/arc-language/layerslim/pkg/dlogger"
)

var (
	cfgFile       string
	outDir        string
	cachePath     string
	pipPath       string
	pythonPath    string
	runtimeName   string
	profilesDir   string
	logLevel      string
	debug         bool
	noCheckpoints bool
	config        *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "layerslim",
	Short: "Slim boto3 Lambda layers",
	Long: `layerslim - boto3/botocore Lambda layer builder

Installs boto3, strips documentation, cruft and unused services from the
bundled models, optionally converts them to a binary codec, and patches
botocore's loader to cache directory scans and read the converted files.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/layerslim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "directory layers are built in")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache-path", "", "directory pip installs are cached in")
	rootCmd.PersistentFlags().StringVar(&pipPath, "pip", "", "pip executable")
	rootCmd.PersistentFlags().StringVar(&pythonPath, "python", "", "python used to detect the runtime")
	rootCmd.PersistentFlags().StringVar(&runtimeName, "runtime", "", "layer runtime, e.g. python3.11")
	rootCmd.PersistentFlags().StringVar(&profilesDir, "profiles-dir", "", "directory of <name>.toml profiles")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, none)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noCheckpoints, "no-checkpoints", false, "skip the -orig/-dedented/-dedented-docless copies")

	// Add commands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if outDir != "" {
		config.OutDir = outDir
	}
	if cachePath != "" {
		config.CachePath = cachePath
	}
	if pipPath != "" {
		config.Pip = pipPath
	}
	if pythonPath != "" {
		config.Python = pythonPath
	}
	if runtimeName != "" {
		config.Runtime = runtimeName
	}
	if profilesDir != "" {
		config.ProfilesDir = profilesDir
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if debug {
		config.LogLevel = dlogger.LogLevelDebug
	}
	if noCheckpoints {
		config.Checkpoints = false
	}
}

func newLogger() (*zap.SugaredLogger, error) {
	l, err := dlogger.GetConsoleLogger(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return l.Sugar(), nil
}

func newManager(ctx context.Context) (*layerslim.Manager, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	return layerslim.NewManager(ctx, config, layerslim.WithLogger(logger))
}
