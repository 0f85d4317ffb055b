// Command mailpage copies email messages into a Notion database.
package main

import (
	"os"

	"github.com/custodia-labs/mailpage/internal/adapters/driving/cli"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Sync()

	app, err := newApp(os.Getenv("MAILPAGE_HOME"))
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer app.Close()

	cli.SetVersion(version)
	cli.SetServices(app.Services())
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
