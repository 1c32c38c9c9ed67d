package app

import (
	"fmt"
	"maps"
	"net"
	"net/url"
	"os"
	"runtime"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/arcade"
	"github.com/agentstation/arcade/internal/output"
	"github.com/agentstation/arcade/internal/server"
	"github.com/agentstation/arcade/pkg/assets"
	"github.com/agentstation/arcade/pkg/constants"
	"github.com/agentstation/arcade/pkg/errors"
	"github.com/agentstation/arcade/pkg/games"
	"github.com/agentstation/arcade/pkg/report"
)

// NewBuildCommand creates the build command.
func (a *App) NewBuildCommand() *cobra.Command {
	var loadFilter, publishFilter string

	cmd := &cobra.Command{
		Use:     "build [database] [language]",
		GroupID: "core",
		Short:   "Publish the game catalog",
		Long: `Build reads the catalog database, media, emulator binaries and templates
from the source directory and publishes one document per playable game,
plus every asset the documents reference, under the output directory.`,
		Example: `  # Build every game in English
  arcade build

  # Build the "arcade" database in German
  arcade build arcade de

  # Only publish games with a video preview
  ARCADE_PUBLISH_FILTER=videos arcade build`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.config.Database = args[0]
			}
			if len(args) > 1 {
				a.config.Language = args[1]
			}
			if cmd.Flags().Changed("load-filter") {
				a.config.LoadFilter = loadFilter
			}
			if cmd.Flags().Changed("publish-filter") {
				a.config.PublishFilter = publishFilter
			}
			return a.runBuild(cmd)
		},
	}

	cmd.Flags().StringVar(&loadFilter, "load-filter", "", "records to load: all, parents")
	cmd.Flags().StringVar(&publishFilter, "publish-filter", "", "games to publish: all, videos, logos, icons, mame-artwork, videos-and-logos")

	return cmd
}

func (a *App) runBuild(cmd *cobra.Command) error {
	format, err := report.ParseFormat(string(output.DetectFormat(a.config.Format, stdoutFile(cmd))))
	if err != nil {
		return err
	}

	store := assets.NewDirStore(a.config.OutputDir)
	builder, err := a.Builder(store)
	if err != nil {
		return err
	}

	skipped := make(map[arcade.SkipReason]int)
	builder.OnGameSkipped(func(_ *games.GameRecord, reason arcade.SkipReason) {
		skipped[reason]++
	})

	a.logger.Info().
		Str("source", a.config.SourceDir).
		Str("output", a.config.OutputDir).
		Str("database", a.config.Database).
		Str("language", a.config.Language).
		Msg("Building")

	rep, buildErr := builder.Build(cmd.Context())
	if rep == nil {
		return buildErr
	}
	rep.Log(a.logger)

	for _, reason := range slices.Sorted(maps.Keys(skipped)) {
		a.logger.Info().Str("reason", string(reason)).Int("games", skipped[reason]).Msg("Skipped games")
	}

	if buildErr != nil {
		return buildErr
	}
	return rep.Write(cmd.OutOrStdout(), format)
}

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the published catalog",
		Long: `Serve starts a static file server over the output directory. Files are
sent with a long cache lifetime since published names change whenever their
templates do. The server is reachable from other devices on the local network.`,
		Example: `  # Serve on the default port
  arcade serve

  # Serve on port 3000
  arcade serve --port 3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.config.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.config.Port = port
			}

			cfg := server.DefaultConfig()
			cfg.Host = a.config.Host
			cfg.Port = a.config.Port
			cfg.Root = a.config.OutputDir

			srv, err := server.New(cfg, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Serving %s at %s\n", cfg.Root, srv.URL())
			fmt.Fprintln(out, "Press Ctrl+C to stop")

			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", constants.DefaultPort, "server port")
	cmd.Flags().StringVar(&host, "host", "", "bind address (default all interfaces)")

	return cmd
}

// NewLaunchCommand creates the launch command.
func (a *App) NewLaunchCommand() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:     "launch <game> <system>",
		GroupID: "core",
		Short:   "Open a published game in the browser",
		Long: `Launch reads the app id of the last build and opens the game's document
on a running "arcade serve" in the default browser.`,
		Example: `  arcade launch pacman mame
  arcade launch doom dosbox --port 3000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.config.Port = port
			}
			gameURL, err := a.GameURL(args[0], args[1], host)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), gameURL)
			return a.opener.Open(cmd.Context(), gameURL)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", constants.DefaultPort, "port of the running server")
	cmd.Flags().StringVar(&host, "host", "localhost", "host of the running server")

	return cmd
}

// GameURL returns the address of a published game document.
func (a *App) GameURL(game, system, host string) (string, error) {
	manifest, err := arcade.ReadAppManifest(assets.NewDir(a.config.OutputDir))
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.NewConfigError("launch", "no published app found, run \"arcade build\" first", err)
		}
		return "", err
	}

	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, strconv.Itoa(a.config.Port)),
		Path:   "/" + arcade.DocumentKey(system, game, manifest.ID),
	}
	return u.String(), nil
}

// versionInfo is the output of the version command.
type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Built     string `json:"built" yaml:"built"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.config.Format == "" && !a.config.Verbose {
				cmd.Printf("arcade %s\n", a.version)
				return nil
			}

			format, err := output.ParseFormat(a.config.Format)
			if err != nil {
				return err
			}
			info := versionInfo{
				Version:   a.version,
				Commit:    a.commit,
				Built:     a.date,
				BuiltBy:   a.builtBy,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
		},
	}
}

// stdoutFile returns the command's output when it is a file.
func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}
