package cmd

import (
	"errors"
	"os"

	"github.com/souffle-app/souffle-content/internal/manifest"
	"github.com/souffle-app/souffle-content/internal/pipeline"
	"github.com/souffle-app/souffle-content/pkg/buildinfo"
	"github.com/souffle-app/souffle-content/pkg/config"
	"github.com/souffle-app/souffle-content/pkg/exitcode"
	"github.com/souffle-app/souffle-content/pkg/logger"
	"github.com/spf13/cobra"
)

// errNetwork marks failures talking to a remote host (manifest fetch, asset warm-up).
var errNetwork = errors.New("network error")

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "souffle-content",
		Short: "Validate lesson content and build the offline content manifest",
		Long: `souffle-content walks the lesson content tree, validates worlds, lessons and scenes,
hashes scenes and their assets, and writes public/content-manifest.json for the app's
offline cache.

Examples:
   souffle-content build                  # validate and write the manifest
   souffle-content validate --format json # CI check, writes nothing
   souffle-content inspect                # tables of the current manifest
   souffle-content precache               # assets the app warms for core lessons`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: ./souffle-content.yaml if present)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("souffle-content {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInspectCommand())
	cmd.AddCommand(newPrecacheCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the CLI and exits with the code matching the failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		logger.Error("Command execution failed", logger.Err(err), logger.String("exit", exitcode.String(code)))
		os.Exit(code)
	}
}

// exitCodeFor maps an error onto the process exit codes.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	if kind, ok := pipeline.KindOf(err); ok {
		if kind == pipeline.StructuralError {
			return exitcode.FileSystemError
		}
		return exitcode.ValidationError
	}
	switch {
	case errors.Is(err, manifest.ErrWrite):
		return exitcode.FileSystemError
	case errors.Is(err, config.ErrInvalid):
		return exitcode.ConfigError
	case errors.Is(err, errNetwork):
		return exitcode.NetworkError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	out := cmd.ErrOrStderr()
	logCfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor && !jsonLogs && logger.ColorSupported(out),
		JSON:      jsonLogs,
		Component: "souffle-content",
		DryRun:    cmd.Annotations["dry-run"] == "true",
	}

	logger.Initialize(logCfg)
	logger.SetOutput(out)
}
