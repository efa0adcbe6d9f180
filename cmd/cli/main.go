package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/homeapp/internal/apiclient"
	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/config"
	"github.com/dvloznov/homeapp/internal/logger"
	"github.com/dvloznov/homeapp/internal/netmon"
	"github.com/dvloznov/homeapp/internal/storage"
)

// app is what every command needs: config, a logger and a ready client.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *apiclient.Client
	objects *storage.Client
	monitor *netmon.Prober
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	commands := map[string]func(context.Context, *app, []string) error{
		"list":      runList,
		"create":    runCreate,
		"update":    runUpdate,
		"delete":    runDelete,
		"attach":    runAttach,
		"view-url":  runViewURL,
		"schedules": runSchedules,
		"balances":  runBalances,
		"cash":      runCash,
		"insights":  runInsights,
	}

	name := os.Args[1]
	switch name {
	case "help", "-h", "--help":
		printUsage()
		return
	}
	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.objects.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, a.log)

	if !a.monitor.Probe(ctx) {
		a.log.Warn().Str("api", a.cfg.APIBaseURL).Msg("Backend unreachable, the command will likely fail")
	}

	if err := run(ctx, a, os.Args[2:]); err != nil {
		a.log.Error().Err(err).Str("command", name).Msg("Command failed")
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Retryable() {
			fmt.Fprintln(os.Stderr, "The failure may be temporary, run the command again to retry.")
		}
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	log := logger.NewWithLevel(cfg.LogLevel)

	profile, err := codec.ParseProfile(cfg.TimestampProfile)
	if err != nil {
		return nil, err
	}
	cdc, err := codec.New(profile, cfg.Location())
	if err != nil {
		return nil, err
	}

	objects := storage.New(storage.Options{
		CredentialsFile: cfg.GCSCredentialsFile,
		Endpoint:        cfg.GCSEndpoint,
	})
	client, err := apiclient.New(cfg.APIBaseURL, cfg.APIToken, cdc,
		apiclient.WithObjectWriter(objects),
		apiclient.WithLogger(logger.Component(log, "apiclient")),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		client:  client,
		objects: objects,
		monitor: netmon.NewProber(cfg.APIBaseURL+"/health", netmon.WithLogger(log)),
	}, nil
}

func printUsage() {
	fmt.Println("Home finance CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  list       List transactions with filters and search")
	fmt.Println("  create     Record a transaction (a negative amount records income)")
	fmt.Println("  update     Change fields of an existing transaction")
	fmt.Println("  delete     Delete a transaction")
	fmt.Println("  attach     Attach a receipt file or photo to a transaction")
	fmt.Println("  view-url   Print or download the receipt of a transaction")
	fmt.Println("  schedules  List, create, update or delete payment schedules")
	fmt.Println("  balances   List, record or delete account balances")
	fmt.Println("  cash       Show, add to or reset the cash ledger")
	fmt.Println("  insights   Show the spending trend and category breakdown")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nConfiguration comes from HOMEAPP_* environment variables or a .env file.")
	fmt.Println("Run 'cli <command> -h' for more information on a command.")
}
