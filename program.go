package main

import (
	"context"
	"os"
	"strings"
	"time"

	"grokcord/sources/artificial"
	"grokcord/sources/configuration"
	"grokcord/sources/conversation"
	"grokcord/sources/discord"
	"grokcord/sources/documents"
	"grokcord/sources/external"
	"grokcord/sources/features"
	"grokcord/sources/localization"
	"grokcord/sources/metrics"
	"grokcord/sources/metrics/collector"
	"grokcord/sources/network"
	"grokcord/sources/persistence"
	"grokcord/sources/platform"
	"grokcord/sources/repository"
	"grokcord/sources/throttler"
	"grokcord/sources/tracing"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

type cli struct {
	Config  string           `help:"Path to the YAML configuration file." env:"CONFIG_PATH" default:"config.yaml" type:"path"`
	EnvFile string           `help:"Dotenv file loaded before anything else." name:"env-file" default:".env"`
	Version kong.VersionFlag `help:"Print the version and exit."`
}

func main() {
	// .env must be loaded before kong resolves env-backed flags.
	_ = godotenv.Load(envFile())

	var args cli
	kong.Parse(&args,
		kong.Name("grokcord"),
		kong.Description("Discord chat bot answering with Grok."),
		kong.Vars{"version": version + " (" + buildTime + ")"},
	)

	platform.SetAppManifest(version, buildTime, time.Now())

	fx.New(
		fx.Supply(configuration.Path(args.Config)),
		fx.WithLogger(tracing.FxLogger),

		tracing.Module,
		configuration.Module,
		metrics.Module,
		features.Module,
		localization.Module,
		network.Module,
		persistence.Module,
		repository.Module,
		external.Module,
		conversation.Module,
		throttler.Module,
		documents.Module,
		artificial.Module,
		collector.Module,
		discord.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Grokcord started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Grokcord stopped", "version", version, "build_time", buildTime, "uptime", platform.GetAppUptime().String())
					return nil
				},
			})
		}),
	).Run()
}

// envFile finds --env-file ahead of flag parsing.
func envFile() string {
	path := ".env"
	for i, arg := range os.Args[1:] {
		switch {
		case strings.HasPrefix(arg, "--env-file="):
			path = strings.TrimPrefix(arg, "--env-file=")
		case arg == "--env-file" && i+2 < len(os.Args):
			path = os.Args[i+2]
		}
	}
	return path
}
