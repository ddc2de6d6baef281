package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configFile string

	// Build flags, shared by the root, build and watch commands
	buildPrefix   string
	buildNetworks string
	buildEngine   string
	buildTUI      bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adbuild",
	Short: "adbuild - per-network builds for playable ads",
	Long: `adbuild produces one playable-ad build per ad network from a single
Phaser project.

For every selected network it renders a bundler config, runs the bundler,
copies the network's extra files, inlines the bundle into index.html where the
network expects a single file, and injects the configured store links.

Run without arguments to be prompted for a prefix and the networks to build.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBuild,
}

// buildCmd runs one batch of network builds
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the selected networks once",
	Long: `Builds each selected network in order. A network that fails is reported
and the remaining networks still build.

Examples:
  adbuild build --prefix mygame --networks all
  adbuild build --prefix mygame --networks 1,4,16
  adbuild build --networks facebook,google,unity --engine esbuild`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

// networksCmd lists the catalog with its per-network behavior
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the ad networks and how each is packaged",
	Args:  cobra.NoArgs,
	RunE:  runNetworks,
}

// watchCmd rebuilds on source changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the selected networks whenever the source tree changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

// patchCmd patches the installed Phaser distribution
var patchCmd = &cobra.Command{
	Use:   "patch-phaser",
	Short: "Remove window.top access from the installed Phaser files",
	Long: `Rewrites node_modules/phaser so input handling no longer reads window.top,
which throws inside the cross-origin iframes ad networks serve playables in.

Delete the build directory and rebuild afterwards.`,
	Args: cobra.NoArgs,
	RunE: runPatch,
}

// initCmd writes a default adbuild.yaml
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default adbuild.yaml into the workspace",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&buildPrefix, "prefix", "p", "", "Project name prefix for output directories (prompted if empty)")
	cmd.Flags().StringVarP(&buildNetworks, "networks", "n", "", `Networks: "all", numbers (1,3,5) or names (facebook,unity); prompted if empty`)
	cmd.Flags().StringVar(&buildEngine, "engine", "", "Bundler engine override: webpack or esbuild")
	cmd.Flags().BoolVar(&buildTUI, "tui", false, "Pick networks in a full-screen list")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: nearest dir with adbuild.yaml or package.json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "adbuild.yaml", "Config file, relative to the workspace")

	addBuildFlags(rootCmd)
	addBuildFlags(buildCmd)
	addBuildFlags(watchCmd)

	networksCmd.Flags().BoolVar(&networksPlain, "plain", false, "Print the raw markdown table")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")

	// Add commands to root
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(networksCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
