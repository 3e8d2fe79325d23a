// dinefind serves restaurant discovery and reservation tools to LLM agents
// over the MCP stdio transport.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/redis/go-redis/v9"

	"github.com/effective-security/dinefind/config"
	"github.com/effective-security/dinefind/pkg/booking"
	"github.com/effective-security/dinefind/pkg/catalog"
	"github.com/effective-security/dinefind/store"
	"github.com/effective-security/dinefind/tools"
	"github.com/effective-security/dinefind/tools/restaurants"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/dinefind", "main")

func main() {
	cfgFile := flag.String("cfg", "", "path to the configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// stdout carries the MCP protocol; all logs go to stderr
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)
	if *debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	}

	if err := run(*cfgFile); err != nil {
		logger.KV(xlog.ERROR, "reason", "server failed", "err", err.Error())
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	cat, err := catalog.NewGooglePlaces(values.StringsCoalesce(cfg.Places.APIKey, os.Getenv("GOOGLE_PLACES_API_KEY")))
	if err != nil {
		return err
	}
	if cfg.Places.BaseURL != "" {
		cat.WithBaseURL(cfg.Places.BaseURL)
	}

	var reservations store.ReservationStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		reservations = store.NewRedisStore(client, cfg.Redis.Prefix)
	} else {
		reservations = store.NewMemoryStore()
	}

	engine := booking.NewEngine()

	searchTool, err := restaurants.NewSearchTool(cat)
	if err != nil {
		return err
	}
	detailsTool, err := restaurants.NewDetailsTool(cat)
	if err != nil {
		return err
	}
	availabilityTool, err := restaurants.NewAvailabilityTool(cat, engine)
	if err != nil {
		return err
	}
	reserveTool, err := restaurants.NewReserveTool(cat, engine)
	if err != nil {
		return err
	}
	reserveTool.WithStore(reservations)
	instructionsTool, err := restaurants.NewInstructionsTool(cat)
	if err != nil {
		return err
	}

	server := mcp.NewServer(stdio.NewStdioServerTransport(),
		mcp.WithName(values.StringsCoalesce(cfg.Server.Name, "dinefind")),
		mcp.WithVersion(values.StringsCoalesce(cfg.Server.Version, "dev")),
	)

	mcpTools := []tools.IMCPTool{
		searchTool,
		detailsTool,
		availabilityTool,
		reserveTool,
		instructionsTool,
	}
	for _, tool := range mcpTools {
		if err := tool.RegisterMCP(server); err != nil {
			return err
		}
		logger.KV(xlog.INFO, "status", "registered", "tool", tool.Name())
	}

	if err := server.Serve(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
