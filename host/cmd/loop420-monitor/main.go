package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"loop420/host/monitor"
	"loop420/host/serial"
	"loop420/protocol"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate (ignored for USB CDC)")
	asJSON  = flag.Bool("json", false, "Print one JSON object per reading")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	if *verbose {
		fmt.Fprintf(os.Stderr, "loop420 monitor (protocol %s)\n", protocol.Version)
		fmt.Fprintf(os.Stderr, "Opening %s at %d baud...\n", *device, *baud)
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	// Start on a block boundary rather than mid-stream
	if err := port.Flush(); err != nil && *verbose {
		fmt.Fprintf(os.Stderr, "Warning: flush failed: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := monitor.New(port, os.Stdout, monitor.Options{
		Follow:  true,
		JSON:    *asJSON,
		Verbose: *verbose,
	})

	err = m.Run(ctx)
	if *verbose {
		fmt.Fprintf(os.Stderr, "%d readings, %d dropped blocks\n", m.Count(), m.Dropped())
	}
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
