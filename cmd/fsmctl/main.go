// Command fsmctl validates, draws, describes and plays YAML state machine
// definitions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/amp-labs/amp-fsm/logger"
	"github.com/amp-labs/amp-fsm/shutdown"
	"github.com/amp-labs/amp-fsm/telemetry"
)

const appName = "fsmctl"

func main() {
	os.Exit(run())
}

func run() int {
	hooks := shutdown.New()

	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	defer hooks.Run(ctx)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	otelCfg, err := telemetry.LoadConfigFromEnv(appName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	if err := telemetry.Initialize(ctx, otelCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	hooks.BeforeShutdown(func(ctx context.Context) {
		_ = telemetry.Shutdown(ctx)
	})

	// Logs go to stderr unless LOG_OUTPUT says otherwise; stdout carries results.
	if os.Getenv("LOG_OUTPUT") == "" {
		_ = os.Setenv("LOG_OUTPUT", "stderr")
	}

	if _, err := logger.ConfigureLogging(appName, logger.WithHandler(telemetry.LogHandler(appName))); err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	app := newApp(cfg, hooks)
	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}
