package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"streetartlist/internal/board"
	"streetartlist/internal/capture"
	"streetartlist/internal/config"
	"streetartlist/internal/datefmt"
	"streetartlist/internal/ics"
	appLog "streetartlist/internal/log"
	"streetartlist/internal/model"
	"streetartlist/internal/recap"
	"streetartlist/internal/scheduler"
	"streetartlist/internal/web"
)

func setupLogging(c *cli.Context) error {
	name := c.String("log-level")
	if name == "" {
		return nil
	}
	level, ok := appLog.ParseLevel(name)
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown log level %q", name), ExitUsageError)
	}
	appLog.SetLevel(level)
	return nil
}

// loadConfig loads the YAML config. The config log level applies unless
// --log-level was given.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to load config %s: %v", path, err), ExitDataError)
	}
	if c.String("log-level") == "" {
		if level, ok := appLog.ParseLevel(cfg.LogLevel); ok {
			appLog.SetLevel(level)
		} else {
			appLog.Warn("unknown log level in config; using info", "log_level", cfg.LogLevel)
		}
	}
	return cfg, nil
}

// formatterFor resolves the display zone from --zone, then from an
// explicitly given config, then UTC.
func formatterFor(c *cli.Context) (*datefmt.Formatter, error) {
	name := c.String("zone")
	if name == "" && c.IsSet("config") {
		cfg, err := loadConfig(c)
		if err != nil {
			return nil, err
		}
		name = cfg.Timezone
	}
	if name == "" {
		return datefmt.New(nil), nil
	}
	loc, err := datefmt.ResolveLocation(name)
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitUsageError)
	}
	return datefmt.New(loc), nil
}

// newBoard wires the fetcher and formatter for cfg.
func newBoard(cfg *config.Config) *board.Board {
	loc, err := datefmt.ResolveLocation(cfg.Timezone)
	if err != nil {
		appLog.Error("invalid display timezone; falling back to UTC", err, "timezone", cfg.Timezone)
		loc = time.UTC
	}

	sources := make([]ics.Source, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		if f.URL == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: f.ID, URL: f.URL})
	}

	return board.New(board.Options{
		Fetcher:   ics.NewFetcher(cfg.CacheDir, &http.Client{Timeout: 30 * time.Second}),
		Sources:   sources,
		Formatter: datefmt.New(loc),
		Horizon:   time.Duration(cfg.HorizonDays) * 24 * time.Hour,
	})
}

// refreshOnce loads the board for one-shot commands. Partial feed failures
// are logged; an empty board after a failure is a data error.
func refreshOnce(ctx context.Context, b *board.Board) error {
	if err := b.Refresh(ctx); err != nil {
		if len(b.Listings()) == 0 {
			return cli.Exit(fmt.Sprintf("failed to load feeds: %v", err), ExitDataError)
		}
		appLog.Warn("some feeds failed to load", "error", err.Error())
	}
	return nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	appLog.Info("effective config",
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"refresh", cfg.RefreshCron,
		"recap", cfg.RecapCron,
		"horizon_days", cfg.HorizonDays,
		"feeds", len(cfg.Feeds),
		"capture", cfg.Capture.Enabled,
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := newBoard(cfg)
	jobs := scheduler.Jobs{
		Refresh: b.Refresh,
		Recap: func(context.Context) error {
			return writeRecap(cfg, b)
		},
	}
	if cfg.Capture.Enabled {
		opts := capture.Options{
			URL:        cfg.Capture.URL,
			OutputPath: cfg.Capture.Output,
			Width:      cfg.Capture.Width,
			Height:     cfg.Capture.Height,
		}
		// The board sits behind the same auth as everything else.
		if cfg.BasicAuth != nil {
			opts.Username = cfg.BasicAuth.Username
			opts.Password = cfg.BasicAuth.Password
		}
		jobs.Capture = func(ctx context.Context) error {
			return capture.CaptureBoardPNG(ctx, opts)
		}
	}

	sched, err := scheduler.New(b.Formatter().Zone(""), cfg.RefreshCron, cfg.RecapCron, jobs)
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	sched.Start()

	// The first refresh runs alongside the server so /board is reachable
	// when the capture job loads it.
	go sched.RunRefresh(ctx)

	srv := web.NewServer(cfg, b)
	serveErr := srv.ListenAndServe(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		appLog.Error("scheduler stop timed out", err)
	}

	if serveErr != nil {
		return cli.Exit(fmt.Sprintf("http server: %v", serveErr), ExitGeneralError)
	}
	appLog.Info("streetartlist exiting")
	return nil
}

// writeRecap logs the digest and stores it as <cache_dir>/recap.txt.
func writeRecap(cfg *config.Config, b *board.Board) error {
	rc := recap.Build(b.Listings(), b.Formatter(), time.Now(), time.Duration(cfg.RecapDays)*24*time.Hour)
	appLog.Info("weekly recap", "label", rc.Label, "items", len(rc.Items))

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.CacheDir, "recap.txt"), []byte(rc.Text()), 0o644)
}

func formatRange(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return cli.Exit("Usage: streetartlist range <start> [end]", ExitUsageError)
	}
	f, err := formatterFor(c)
	if err != nil {
		return err
	}

	mode := datefmt.DisplayMode{
		Device:  model.ParseDevice(c.String("device")),
		Preview: c.Bool("preview"),
	}
	label := f.FormatRange(c.Args().Get(0), c.Args().Get(1), model.ParseEventFormat(c.String("format")), mode)
	_, err = fmt.Fprintln(c.App.Writer, label)
	return err
}

func formatDeadline(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("Usage: streetartlist deadline <end>", ExitUsageError)
	}
	f, err := formatterFor(c)
	if err != nil {
		return err
	}

	opts := datefmt.DeadlineOptions{
		Preview:     c.Bool("preview"),
		WeeklyRecap: c.Bool("recap"),
		Screen:      model.ParseScreenSize(c.String("screen")),
		Superscript: c.Bool("sup"),
	}
	label := f.FormatDeadline(c.Args().Get(0), c.String("tz"), model.ParseCallType(c.String("type")), opts)
	_, err = fmt.Fprintln(c.App.Writer, label)
	return err
}

func printRecap(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	days := cfg.RecapDays
	if c.IsSet("days") {
		days = c.Int("days")
		if days <= 0 {
			return cli.Exit("--days must be positive", ExitUsageError)
		}
		if days > config.MaxRecapDays {
			return cli.Exit(fmt.Sprintf("--days must be at most %d", config.MaxRecapDays), ExitUsageError)
		}
	}

	b := newBoard(cfg)
	if err := refreshOnce(c.Context, b); err != nil {
		return err
	}

	rc := recap.Build(b.Listings(), b.Formatter(), time.Now(), time.Duration(days)*24*time.Hour)
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(rc)
	}
	_, err = fmt.Fprint(c.App.Writer, rc.Text())
	return err
}

func exportCalendar(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	b := newBoard(cfg)
	if err := refreshOnce(c.Context, b); err != nil {
		return err
	}

	body := ics.ExportDeadlines(b.Listings(), b.Formatter(), time.Now())
	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
			return cli.Exit(fmt.Sprintf("failed to write %s: %v", out, err), ExitGeneralError)
		}
		appLog.Info("calendar exported", "output", out)
		return nil
	}
	_, err = fmt.Fprint(c.App.Writer, body)
	return err
}
