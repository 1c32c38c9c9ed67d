package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/logging"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitFatal = 2
)

// Execute runs the arcade CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "arcade",
		Short:   "Static retro game catalog publisher",
		Version: a.version,
		Long: `Arcade publishes a static, browser-playable catalog of retro games.

Each game record is combined with its media, emulator binaries, ROM dumps and
canonical emulator metadata into a self-contained HTML document. The output
directory can be served by any static file server, including "arcade serve".`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.PersistentFlags().String("config", "", "config file (default is ./arcade.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, markdown")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("arcade {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	configFile := mustFlag("config", flags.GetString)
	verbose := mustFlag("verbose", flags.GetBool)
	quiet := mustFlag("quiet", flags.GetBool)
	noColor := mustFlag("no-color", flags.GetBool)
	format := mustFlag("format", flags.GetString)
	logLevel := mustFlag("log-level", flags.GetString)

	if configFile != "" {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewBuildCommand())
	rootCmd.AddCommand(a.NewServeCommand())
	rootCmd.AddCommand(a.NewLaunchCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitCode maps a command error to the process exit status. Fatal build
// conditions exit with ExitFatal.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsFatal(err):
		return ExitFatal
	default:
		return ExitError
	}
}

// ExitOnError prints err to stderr and exits with its exit code. It returns
// when err is nil.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	label := "Error"
	if errors.IsFatal(err) {
		label = "Fatal"
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
	os.Exit(ExitCode(err))
}

// mustFlag reads a flag defined in this package. A lookup error is a
// programming error.
func mustFlag[T any](name string, get func(string) (T, error)) T {
	val, err := get(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
