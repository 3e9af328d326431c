package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tinyrange/plic"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	configPath := fs.String("config", "", "Controller configuration file (yaml)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *configPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := plic.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctl, err := plic.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to construct controller: %v\n", err)
		os.Exit(1)
	}

	enableBlock := uint64(cfg.Contexts) * plic.EnableStride
	hartBlock := uint64(cfg.Contexts) * plic.HartStride

	fmt.Printf("devices:    %d (+ reserved id 0)\n", cfg.Devices)
	fmt.Printf("contexts:   %d\n", cfg.Contexts)
	fmt.Printf("priorities: %d\n", cfg.Priorities)
	fmt.Printf("base:       0x%08x\n", cfg.Base)
	fmt.Println()

	fmt.Printf("%-22s 0x%08x - 0x%08x\n", "priority registers",
		cfg.Base+plic.PriorityBase, cfg.Base+plic.PriorityBase+uint64(cfg.Devices+1)*4-1)
	fmt.Printf("%-22s 0x%08x - 0x%08x (read-only)\n", "pending bits",
		cfg.Base+plic.PendingBase, cfg.Base+plic.PendingBase+uint64(cfg.Devices)/8)
	fmt.Printf("%-22s 0x%08x - 0x%08x (stride 0x%x)\n", "enable bits",
		cfg.Base+plic.EnableBase, cfg.Base+plic.EnableBase+enableBlock-1, uint64(plic.EnableStride))
	fmt.Printf("%-22s 0x%08x - 0x%08x (stride 0x%x)\n", "threshold/claim",
		cfg.Base+plic.HartBase, cfg.Base+plic.HartBase+hartBlock-1, uint64(plic.HartStride))
	fmt.Println()

	fmt.Printf("register window size: 0x%08x\n", ctl.Size())
}
