// Command crontask is a small inspection utility around the library: it
// loads the configuration stack (file, dotenv, environment), opens the
// configured storage backend, and prints the upcoming run times of a
// cron expression.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crontask/pkg/config"
	"crontask/pkg/cronexpr"
	"crontask/pkg/logx"
	"crontask/pkg/storage"
	"crontask/pkg/timezone"
)

func main() {
	var (
		cfgPath string
		expr    string
		zone    string
		count   int
	)
	flag.StringVar(&cfgPath, "config", "", "path to config yaml/json (optional)")
	flag.StringVar(&expr, "expr", "* * * * *", "cron expression to inspect")
	flag.StringVar(&zone, "timezone", "", "IANA zone for run times (overrides config)")
	flag.IntVar(&count, "n", 5, "number of upcoming runs to print")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath, expr, zone, count); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, expr, zone string, count int) error {
	if err := config.LoadDotenv(); err != nil {
		return fmt.Errorf("dotenv: %w", err)
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFile(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := config.FromEnv(cfg); err != nil {
		return fmt.Errorf("env overlay: %w", err)
	}

	log := logx.NewConsole(cfg.Log.Level)

	store, err := storage.Open(cfg.Storage, log)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()
	log.Info("storage ready",
		logx.String("driver", cfg.Storage.Driver),
		logx.String("prefix", cfg.Storage.Prefix))

	if zone == "" && cfg.Timezone != nil {
		zone = cfg.Timezone.Type
	}
	if zone == "" {
		zone = "UTC"
	}
	if !timezone.IsValid(zone) {
		return fmt.Errorf("invalid timezone: %s", zone)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return err
	}

	parsed, err := cronexpr.Parse(expr)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", expr, zone)
	next := time.Now().In(loc)
	for i := 0; i < count; i++ {
		next = parsed.Next(next)
		if next.IsZero() {
			fmt.Println("  (no further runs)")
			break
		}
		fmt.Printf("  %s\n", next.Format("2006-01-02 15:04 MST"))
	}
	return nil
}
