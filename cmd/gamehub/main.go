package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ryanm101/gamehub/internal/config"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/tracing"
)

var cfg *config.Config

func main() {
	ctx := context.Background()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", tracing.ServiceVersion)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	// Load config
	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Parse global flags (--json, --quiet)
	args := parseGlobalFlags(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	// The terminal UI owns the screen; its logs go to a file instead.
	if args[0] != "tui" {
		logging.Setup(cfg.Logging)
	}

	// Setup Tracing
	shutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}()

	switch args[0] {
	case "serve":
		err = handleServeCommand(ctx, args[1:])
	case "tui":
		err = handleTUICommand(ctx, args[1:])
	case "games":
		err = handleGamesCommand(ctx, args[1:])
	case "game":
		if len(args) < 2 {
			fmt.Println("Usage: gamehub game <slug>")
			os.Exit(1)
		}
		err = handleGameCommand(ctx, args[1])
	case "trailer":
		if len(args) < 2 {
			fmt.Println("Usage: gamehub trailer <game-id>")
			os.Exit(1)
		}
		err = handleTrailerCommand(ctx, args[1])
	case "genres":
		err = handleGenresCommand(ctx)
	case "platforms":
		err = handlePlatformsCommand(ctx)
	case "config":
		err = handleConfigCommand(args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		PrintError("Error: %v\n", err)
		// Deferred shutdown does not run after os.Exit.
		_ = shutdown(ctx)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gamehub - Game catalog browser")
	fmt.Println()
	fmt.Println("Usage: gamehub [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                              Output in JSON format")
	fmt.Println("  --quiet, -q                         Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve [--addr :8080]                Run the web front end")
	fmt.Println("  tui [filters]                       Browse games in the terminal")
	fmt.Println("  games [filters] [--pages n]         List games")
	fmt.Println("  game <slug>                         Show game details")
	fmt.Println("  trailer <game-id>                   Show a game's first trailer")
	fmt.Println("  genres                              List genres")
	fmt.Println("  platforms                           List parent platforms")
	fmt.Println("  config show                         Show active configuration")
	fmt.Println("  config init                         Initialize example config")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Filters:")
	fmt.Println("  --genre <id>  --platform <id>  --ordering <order>  --search <text>")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMEHUB_SOURCE                      rawg (default) or igdb")
	fmt.Println("  GAMEHUB_RAWG_API_KEY                RAWG API key")
	fmt.Println("  GAMEHUB_IGDB_CLIENT_ID/_SECRET      Twitch credentials for IGDB")
	fmt.Println("  GAMEHUB_DB                          Database path (default: gamehub.db)")
	fmt.Println("  GAMEHUB_CONFIG                      Config file path")
}
