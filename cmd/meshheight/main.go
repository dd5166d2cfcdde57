// Command meshheight converts a mesh file into a square heightmap grid.
//
// Usage:
//
//	meshheight -mesh terrain.obj [-config cfg.json] [-size 256] [-lookaround 4]
//	           [-png out.png] [-html out.html] [-db heightmaps.db]
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
	"time"

	"github.com/banshee-data/meshheight/internal/config"
	"github.com/banshee-data/meshheight/internal/heightmap"
	"github.com/banshee-data/meshheight/internal/meshio"
	"github.com/banshee-data/meshheight/internal/monitoring"
	"github.com/banshee-data/meshheight/internal/render"
	"github.com/banshee-data/meshheight/internal/store"
	"github.com/banshee-data/meshheight/internal/version"
)

// options is the parsed command line.
type options struct {
	mesh        string
	zUp         bool
	configPath  string
	verbose     bool
	showVersion bool

	// overrides, applied only when the flag was given
	size       int
	lookAround int
	workers    int
	png        string
	html       string
	db         string
	meshID     string
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("meshheight", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{set: make(map[string]bool)}
	fs.StringVar(&o.mesh, "mesh", "", "Path to the mesh file (.obj, .asc, .xyz, .txt, .csv)")
	fs.BoolVar(&o.zUp, "zup", false, "Treat Z as the vertical axis in point list files")
	fs.StringVar(&o.configPath, "config", "", "Path to a heightmap JSON config file")
	fs.BoolVar(&o.verbose, "v", false, "Enable diagnostic logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.IntVar(&o.size, "size", 0, "Grid size in cells per axis (overrides config)")
	fs.IntVar(&o.lookAround, "lookaround", 0, "Look-around matrix size, positive and even (overrides config)")
	fs.IntVar(&o.workers, "workers", 0, "Worker goroutines for aggregation and filling (overrides config)")
	fs.StringVar(&o.png, "png", "", "Write a PNG heat map to this path (overrides config)")
	fs.StringVar(&o.html, "html", "", "Write an HTML heat map to this path (overrides config)")
	fs.StringVar(&o.db, "db", "", "Store a snapshot in this SQLite database (overrides config)")
	fs.StringVar(&o.meshID, "mesh-id", "", "Identifier recorded with stored snapshots (overrides config)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(o *options) (*config.HeightmapConfig, error) {
	cfg := config.EmptyHeightmapConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadHeightmapConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.set["size"] {
		cfg.Size = &o.size
	}
	if o.set["lookaround"] {
		cfg.LookAroundMatrixSize = &o.lookAround
	}
	if o.set["workers"] {
		cfg.Workers = &o.workers
	}
	if o.set["png"] {
		cfg.OutputPNG = &o.png
	}
	if o.set["html"] {
		cfg.OutputHTML = &o.html
	}
	if o.set["db"] {
		cfg.DBPath = &o.db
	}
	if o.set["mesh-id"] {
		cfg.MeshID = &o.meshID
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadContext bounds the load by timeout; zero means no timeout.
func loadContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if o.mesh == "" {
		return errors.New("-mesh is required")
	}

	cfg, err := resolveConfig(o)
	if err != nil {
		return err
	}

	if o.verbose {
		heightmap.SetLogWriters(stderr, stderr, nil)
	} else {
		heightmap.SetLogWriters(stderr, nil, nil)
	}

	hm, err := heightmap.New(&meshio.FileSource{Path: o.mesh, ZUp: o.zUp}, cfg.GetSize(),
		heightmap.WithLookAround(cfg.GetLookAroundMatrixSize()),
		heightmap.WithWorkers(cfg.GetWorkers()),
	)
	if err != nil {
		return err
	}

	loadCtx, cancel := loadContext(ctx, cfg.GetLoadTimeout())
	defer cancel()
	if _, err := hm.LoadContext(loadCtx); err != nil {
		return fmt.Errorf("load %s: %w", o.mesh, err)
	}

	stats := hm.Stats()
	sum := hm.Summary()
	fmt.Fprintf(stdout, "grid %dx%d from %d points (lookaround %d, %v)\n",
		hm.Size(), hm.Size(), stats.Points, stats.LookAround, stats.Duration)
	fmt.Fprintf(stdout, "cells: occupied=%d interpolated=%d empty=%d\n",
		stats.Occupied, stats.Interpolated, stats.Empty)
	fmt.Fprintf(stdout, "height: min=%.4f max=%.4f mean=%.4f stddev=%.4f\n",
		sum.Min, sum.Max, sum.Mean, sum.StdDev)

	title := fmt.Sprintf("%s heightmap", cfg.GetMeshID())
	grid := hm.HeightData()
	if path := cfg.GetOutputPNG(); path != "" {
		if err := render.SavePNG(path, grid, hm.Size(), title); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}
	if path := cfg.GetOutputHTML(); path != "" {
		if err := render.SaveHTML(path, grid, hm.Size(), title); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}

	if path := cfg.GetDBPath(); path != "" {
		st, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer st.Close()

		snap, err := store.NewSnapshot(cfg.GetMeshID(), hm)
		if err != nil {
			return err
		}
		id, err := st.InsertSnapshot(snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "stored snapshot %s\n", id)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitoring.SetLogger(log.New(os.Stderr, "", log.LstdFlags).Printf)
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Printf("meshheight: %v", err)
		os.Exit(1)
	}
}
