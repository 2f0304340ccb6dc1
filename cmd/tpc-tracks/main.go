// Command tpc-tracks runs the track reconstruction chain over a file of
// track events and prints the observables of every event as JSON lines.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/rest-for-physics/tracklib/internal/config"
	"github.com/rest-for-physics/tracklib/internal/fsutil"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/process"
	"github.com/rest-for-physics/tracklib/internal/version"
	"github.com/rest-for-physics/tracklib/internal/viewer"
)

type options struct {
	configPath string
	eventsPath string
	workers    int
	pngDir     string
	htmlPath   string
	verbose    bool
	trace      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tpc-tracks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Process chain configuration (JSON); defaults are used when empty")
	fs.StringVar(&o.eventsPath, "events", "", "Input events (JSON array)")
	fs.IntVar(&o.workers, "workers", 0, "Events processed in parallel; overrides the config when > 0")
	fs.StringVar(&o.pngDir, "png-dir", "", "Write XZ/YZ projection plots of every event to this directory")
	fs.StringVar(&o.htmlPath, "html", "", "Write an interactive HTML view of the processed events")
	fs.BoolVar(&o.verbose, "v", false, "Enable diagnostic logging")
	fs.BoolVar(&o.trace, "trace", false, "Enable trace logging")
	fs.BoolVar(&o.version, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.eventsPath == "" && !o.version {
		return o, errors.New("-events is required")
	}
	return o, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], fsutil.OSFileSystem{}, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("tpc-tracks: %v", err)
	}
}

func run(ctx context.Context, args []string, fsys fsutil.FileSystem, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.version {
		_, err := fmt.Fprintf(stdout, "tpc-tracks %s\n", version.String())
		return err
	}

	writers := monitoring.LogWriters{Ops: stderr}
	if o.verbose || o.trace {
		writers.Diag = stderr
	}
	if o.trace {
		writers.Trace = stderr
	}
	monitoring.SetLogWriters(writers)

	cfg := config.DefaultProcessConfig()
	if o.configPath != "" {
		if cfg, err = config.LoadProcessConfig(fsys, o.configPath); err != nil {
			return err
		}
	}
	workers := cfg.GetWorkers()
	if o.workers > 0 {
		workers = o.workers
	}

	chain, err := process.NewChainFromConfig(cfg)
	if err != nil {
		return err
	}
	events, err := loadEvents(fsys, o.eventsPath)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	monitoring.Opsf("[tpc-tracks] run %s (%s): %d events, chain %v, %d workers",
		runID, version.Version, len(events), chain.Names(), workers)

	out, err := process.RunEvents(ctx, chain, events, workers)
	if err != nil {
		return err
	}
	if err := writeResults(stdout, runID, events, out); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	if o.pngDir != "" {
		for _, ev := range out {
			if ev == nil {
				continue
			}
			if _, err := viewer.RenderPNG(fsys, o.pngDir, ev); err != nil {
				return err
			}
		}
	}
	if o.htmlPath != "" {
		f, err := fsys.Create(o.htmlPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", o.htmlPath, err)
		}
		if err := viewer.RenderHTML(f, out); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", o.htmlPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	st := chain.Stats()
	monitoring.Opsf("[tpc-tracks] run %s done: processed=%d dropped=%d invalid=%d", runID, st.Processed, st.Dropped, st.Invalid)
	return nil
}
