// Command arcade publishes a static catalog of browser-playable retro games.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentstation/arcade/cmd/arcade/app"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	app.ExitOnError(err)
}

func run(ctx context.Context) error {
	a, err := app.New(version, commit, date, builtBy)
	if err != nil {
		return err
	}
	return a.Execute(ctx, os.Args[1:])
}
