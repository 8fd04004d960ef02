// Command tyre.report runs the thermal tyre pipeline as a telemetry device:
// it reads frames from a source, detects and analyses the tyre span, and
// publishes per-frame results over serial (JSON or compact CSV) while keeping
// the bus register bank and an optional SQLite recording up to date.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/tyre.report/internal/config"
	"github.com/banshee-data/tyre.report/internal/monitoring"
	"github.com/banshee-data/tyre.report/internal/serialio"
	"github.com/banshee-data/tyre.report/internal/store"
	"github.com/banshee-data/tyre.report/internal/telemetry"
	"github.com/banshee-data/tyre.report/internal/thermal"
	"github.com/banshee-data/tyre.report/internal/version"
)

var (
	portPath   = flag.String("port", "", "Serial port for telemetry output (empty: stdout)")
	baudRate   = flag.Int("baud", 115200, "Serial baud rate")
	replayPath = flag.String("replay", "", "Replay frames from a newline-delimited JSON capture file")
	format     = flag.String("format", "json", "Telemetry format: json or csv")
	dbPath     = flag.String("db", "", "Optional SQLite file to record frames into")
	tuningPath = flag.String("tuning", "", "Optional JSON tuning overlay")
	interval   = flag.Duration("interval", 250*time.Millisecond, "Read cycle interval")
	maxRetries = flag.Int("max-retries", 10, "Consecutive capture failures before giving up")
	exact      = flag.Bool("exact", false, "Use exact median/MAD reducers instead of mean/stddev")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitoring.Logf("tyre.report %s starting", version.Version)

	cfg := thermal.DefaultConfig()
	if *tuningPath != "" {
		tuning, err := config.LoadTuningConfig(*tuningPath)
		if err != nil {
			return err
		}
		if cfg, err = tuning.Apply(cfg); err != nil {
			return err
		}
	}

	var red thermal.Reducer = thermal.FastReducer{}
	if *exact {
		red = thermal.ExactReducer{}
	}

	source, err := openSource(cfg)
	if err != nil {
		return err
	}

	sensor, err := thermal.NewSensor(cfg, source, red)
	if err != nil {
		return err
	}

	var link *serialio.Link
	if *portPath != "" {
		port, err := serialio.Open(*portPath, serialio.PortOptions{BaudRate: *baudRate})
		if err != nil {
			return err
		}
		link = serialio.NewLink(port)
		defer link.Close()

		go func() {
			if err := link.Monitor(ctx); err != nil && ctx.Err() == nil {
				monitoring.Logf("serial monitor stopped: %v", err)
			}
		}()
	}

	var recorder *store.Store
	var sessionID string
	if *dbPath != "" {
		if recorder, err = store.Open(*dbPath); err != nil {
			return err
		}
		defer recorder.Close()
		if sessionID, err = recorder.StartSession(fmt.Sprintf("format=%s exact=%v", *format, *exact)); err != nil {
			return err
		}
		monitoring.Logf("recording session %s to %s", sessionID, *dbPath)
	}

	registers := telemetry.NewRegisterBank()
	compact := strings.EqualFold(*format, "csv")

	sink := func(r *thermal.FrameResult) {
		// Host commands run here, on the supervisor goroutine, so they
		// never race the sensor.
		if link != nil {
			drainCommands(link, sensor, &compact)
		}

		registers.Update(r)

		payload, err := encode(r, compact)
		if err != nil {
			monitoring.Logf("encoding frame %d: %v", r.FrameNumber, err)
			return
		}
		if link != nil {
			if err := link.SendLine(payload); err != nil {
				monitoring.Logf("sending frame %d: %v", r.FrameNumber, err)
			}
		} else {
			fmt.Print(payload)
		}

		if recorder != nil {
			if err := recorder.RecordFrame(sessionID, r); err != nil {
				monitoring.Logf("%v", err)
			}
		}

		if r.FrameNumber%10 == 0 {
			monitoring.Logf("frame %d: L=%.1fC C=%.1fC R=%.1fC conf=%.0f%% warn=%d",
				r.FrameNumber,
				r.Analysis.Left.Avg, r.Analysis.Centre.Avg, r.Analysis.Right.Avg,
				r.Detection.Confidence*100, len(r.Warnings))
		}
	}

	supervisor := thermal.NewSupervisor(sensor, thermal.SupervisorConfig{
		Interval:     *interval,
		RetryBackoff: time.Second,
		MaxRetries:   *maxRetries,
	}, nil)

	err = supervisor.Run(ctx, sink)
	monitoring.Logf("supervisor %s", supervisor.State())
	return err
}

// openSource picks the frame source: a capture replay when -replay is given,
// otherwise the synthetic generator.
func openSource(cfg thermal.Config) (thermal.FrameSource, error) {
	if *replayPath != "" {
		f, err := os.Open(*replayPath)
		if err != nil {
			return nil, fmt.Errorf("opening replay file: %w", err)
		}
		return thermal.NewReplaySource(f, cfg.SensorHeight, cfg.SensorWidth), nil
	}

	return thermal.NewSyntheticSource(
		cfg.SensorHeight, cfg.SensorWidth,
		thermal.Span{Start: 10, End: 21},
		60.0, 20.0, 1.0, 1,
	), nil
}

func encode(r *thermal.FrameResult, compact bool) (string, error) {
	if compact {
		return telemetry.CompactLine(r), nil
	}
	data, err := telemetry.EncodeJSON(r)
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// drainCommands applies any pending host commands without blocking.
func drainCommands(link *serialio.Link, sensor *thermal.Sensor, compact *bool) {
	for {
		select {
		case cmd, ok := <-link.Commands():
			if !ok {
				return
			}
			switch cmd {
			case "RESET":
				sensor.Reset()
				monitoring.Logf("detector state reset by host")
			case "FORMAT JSON":
				*compact = false
			case "FORMAT CSV":
				*compact = true
			default:
				monitoring.Logf("ignoring unknown host command %q", cmd)
			}
		default:
			return
		}
	}
}
