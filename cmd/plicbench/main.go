package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/tinyrange/plic"
)

type benchStats struct {
	toggles   uint64
	events    uint64
	claims    uint64
	spurious  uint64
	completed uint64
}

func run(cfg plic.Config, iterations int, seed int64) (*benchStats, error) {
	ctl, err := plic.New(cfg)
	if err != nil {
		return nil, err
	}

	base := ctl.Base()

	builder := plic.NewBuilder()
	if err := builder.RegisterDevice("plic", base, ctl); err != nil {
		return nil, err
	}
	if err := builder.WithInterruptSink(ctl); err != nil {
		return nil, err
	}
	pf, err := builder.Build()
	if err != nil {
		return nil, err
	}
	mem := pf.Bus()

	// Random priorities, every device enabled on every context.
	rng := rand.New(rand.NewSource(seed))
	for d := 1; d <= cfg.Devices; d++ {
		addr := base + plic.PriorityBase + uint64(d)*4
		if err := mem.Write32(addr, uint32(rng.Intn(cfg.Priorities+1))); err != nil {
			return nil, err
		}
	}
	for ctx := 0; ctx < cfg.Contexts; ctx++ {
		ebase := base + plic.EnableBase + uint64(ctx)*plic.EnableStride
		for word := 0; word <= cfg.Devices/32; word++ {
			if err := mem.Write32(ebase+uint64(word)*4, ^uint32(0)); err != nil {
				return nil, err
			}
		}
	}

	lines := make([]plic.InputLine, cfg.Devices+1)
	for d := 1; d <= cfg.Devices; d++ {
		lines[d] = pf.Line(d)
	}

	stats := &benchStats{}
	bar := progressbar.Default(int64(iterations))

	for i := 0; i < iterations; i++ {
		device := 1 + rng.Intn(cfg.Devices)
		high := rng.Intn(2) == 0
		lines[device].SetLevel(high)
		stats.toggles++

		ctx := rng.Intn(cfg.Contexts)
		claimAddr := base + plic.HartBase + uint64(ctx)*plic.HartStride + 4
		if ctl.ContextPending(ctx) {
			stats.events++
		}
		claimed, err := mem.Read32(claimAddr)
		if err != nil {
			return nil, err
		}
		if claimed == 0 {
			stats.spurious++
		} else {
			stats.claims++
			if err := mem.Write32(claimAddr, claimed); err != nil {
				return nil, err
			}
			stats.completed++
		}

		_ = bar.Add(1)
	}

	return stats, nil
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	configPath := fs.String("config", "", "Controller configuration file (yaml)")
	devices := fs.Int("devices", 32, "Number of interrupt sources (used without -config)")
	contexts := fs.Int("contexts", 2, "Number of consumer contexts (used without -config)")
	priorities := fs.Int("priorities", 7, "Number of priority levels (used without -config)")
	iterations := fs.Int("iterations", 1000000, "Workload iterations")
	seed := fs.Int64("seed", 1, "Workload random seed")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	cfg := plic.Config{Devices: *devices, Contexts: *contexts, Priorities: *priorities}
	if *configPath != "" {
		loaded, err := plic.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	start := time.Now()
	stats, err := run(cfg, *iterations, *seed)
	if err != nil {
		slog.Error("error", "err", err)
		os.Exit(1)
	}

	slog.Info("complete",
		"time", time.Since(start),
		"toggles", stats.toggles,
		"events", stats.events,
		"claims", stats.claims,
		"spurious", stats.spurious,
		"completed", stats.completed,
	)
}
