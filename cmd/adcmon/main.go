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

	"github.com/itohio/adcmon/pkg/adc"
	"github.com/itohio/adcmon/pkg/config"
	"github.com/itohio/adcmon/pkg/monitor"
	"github.com/itohio/adcmon/pkg/report"
	"github.com/itohio/adcmon/pkg/serialio"
	"github.com/itohio/adcmon/pkg/stats"
)

func main() {
	var (
		portFlag      = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag    = flag.String("config", "config.yaml", "Configuration file path")
		stdoutFlag    = flag.Bool("stdout", false, "Emit reports to stdout instead of the serial port")
		listPortsFlag = flag.Bool("list-ports", false, "List available serial ports and exit")
		readingsFlag  = flag.Uint64("n", 0, "Stop after this many readings (0 = run forever, overrides config)")
	)
	flag.Parse()

	if *listPortsFlag {
		ports, err := serialio.Ports()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *readingsFlag > 0 {
		cfg.Monitor.MaxReadings = *readingsFlag
	}

	var sink io.Writer
	if *stdoutFlag {
		sink = os.Stdout
	} else {
		link := serialio.New(cfg.Serial.Port, cfg.Serial.BaudRate)
		if err := link.Connect(); err != nil {
			log.Fatalf("Failed to connect to %s: %v", cfg.Serial.Port, err)
		}
		defer link.Close()
		sink = link
	}

	channels := adc.Channels()
	rep := report.New(sink, channels)
	sim := adc.NewSim(&cfg.Sim, channels)

	mon := monitor.New(sim, channels, rep, monitor.Options{
		SamplePeriod:   cfg.Monitor.SamplePeriod,
		AcquireTimeout: cfg.Monitor.AcquireTimeout,
		WindowCapacity: stats.DefaultCapacity,
		MaxReadings:    cfg.Monitor.MaxReadings,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mon.Startup(ctx); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Monitor stopped: %v", err)
	}
}
