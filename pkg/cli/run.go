// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/idlelog/pkg/collector"
	"github.com/NVIDIA/idlelog/pkg/defaults"
	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/serializer"
	"github.com/NVIDIA/idlelog/pkg/server"
	"github.com/NVIDIA/idlelog/pkg/snapshotter"
)

// runConfig holds the resolved settings of the run command.
type runConfig struct {
	File           string
	Interval       time.Duration
	Warmup         time.Duration
	Timeout        time.Duration
	MaxFailures    int
	UniformDiff    bool
	ExcludeProcess []string
	UnitPatterns   []string
	NoUnits        bool
	MetricsAddr    string
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Sample the host and append changes to the journal.",
		Description: `Samples memory, swap, per-core CPU, active processes and service units
every interval and appends a JSON record holding only the categories that
changed since the previous record. Memory and swap are written on every
record unless --uniform-diff is set.

Examples:

Log to the default file every second:
  idlelog run

Log to a custom file every 5 seconds, ignoring kernel workers:
  idlelog run --file /var/log/idle-log.jsonl --interval 5s --exclude-process 'kworker*'

Expose health and Prometheus metrics:
  idlelog run --metrics-addr 127.0.0.1:9464`,
		Flags: []cli.Flag{
			fileFlag(),
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "time between the start of two cycles (raised to --warmup when shorter)",
				Sources: cli.EnvVars("IDLELOG_INTERVAL"),
				Value:   defaults.SampleInterval,
			},
			&cli.DurationFlag{
				Name:    "warmup",
				Usage:   "minimum time between CPU readings",
				Sources: cli.EnvVars("IDLELOG_WARMUP"),
				Value:   defaults.CPUWarmup,
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per-cycle provider timeout (0 disables)",
				Sources: cli.EnvVars("IDLELOG_TIMEOUT"),
				Value:   defaults.ProviderTimeout,
			},
			&cli.IntFlag{
				Name:  "max-failures",
				Usage: "exit after this many consecutive skipped cycles (0 never exits)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "uniform-diff",
				Usage: "only write memory and swap when they change",
			},
			&cli.StringSliceFlag{
				Name:  "exclude-process",
				Usage: "process name pattern to ignore, supports * wildcards (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "unit-pattern",
				Usage: "systemd unit name pattern to track (repeatable, default all units)",
			},
			&cli.BoolFlag{
				Name:  "no-units",
				Usage: "disable service unit collection",
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "address for /health, /ready and /metrics (empty disables)",
				Sources: cli.EnvVars("IDLELOG_METRICS_ADDR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := runConfigFrom(cmd)
			if err != nil {
				return err
			}
			factory := collector.NewDefaultFactory(
				collector.WithUnitPatterns(cfg.UnitPatterns),
				collector.WithUnits(!cfg.NoUnits),
			)
			return run(ctx, cfg, factory)
		},
	}
}

func runConfigFrom(cmd *cli.Command) (runConfig, error) {
	cfg := runConfig{
		File:           cmd.String("file"),
		Interval:       cmd.Duration("interval"),
		Warmup:         cmd.Duration("warmup"),
		Timeout:        cmd.Duration("timeout"),
		MaxFailures:    int(cmd.Int("max-failures")),
		UniformDiff:    cmd.Bool("uniform-diff"),
		ExcludeProcess: cmd.StringSlice("exclude-process"),
		UnitPatterns:   cmd.StringSlice("unit-pattern"),
		NoUnits:        cmd.Bool("no-units"),
		MetricsAddr:    cmd.String("metrics-addr"),
	}

	switch {
	case cfg.File == "":
		return cfg, errors.New(errors.ErrCodeInvalidRequest, "--file must not be empty")
	case cfg.Interval <= 0:
		return cfg, errors.New(errors.ErrCodeInvalidRequest, "--interval must be positive")
	case cfg.Warmup < 0:
		return cfg, errors.New(errors.ErrCodeInvalidRequest, "--warmup must not be negative")
	case cfg.Timeout < 0:
		return cfg, errors.New(errors.ErrCodeInvalidRequest, "--timeout must not be negative")
	case cfg.MaxFailures < 0:
		return cfg, errors.New(errors.ErrCodeInvalidRequest, "--max-failures must not be negative")
	}
	return cfg, nil
}

// run opens the journal and drives the sampling loop until ctx ends or a
// fatal error occurs. When a metrics address is set, the listener runs
// alongside the loop and reports ready once warm-up completes.
func run(ctx context.Context, cfg runConfig, factory collector.Factory) error {
	journal, err := serializer.OpenJournal(cfg.File)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := journal.Close(); cerr != nil {
			slog.Warn("failed to close journal", slog.String("error", cerr.Error()))
		}
	}()

	slog.Info("run configuration",
		slog.String("file", journal.Path()),
		slog.Duration("interval", cfg.Interval),
		slog.Duration("warmup", cfg.Warmup),
		slog.Duration("timeout", cfg.Timeout),
		slog.Int("maxFailures", cfg.MaxFailures),
		slog.Bool("uniformDiff", cfg.UniformDiff),
		slog.Any("excludeProcess", cfg.ExcludeProcess),
		slog.String("metricsAddr", cfg.MetricsAddr))

	logHostInfo(ctx, factory.CreateInfoProvider())

	units := factory.CreateUnitProvider(ctx)
	if c, ok := units.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				slog.Debug("failed to close unit provider", slog.String("error", cerr.Error()))
			}
		}()
	}

	engine := snapshotter.NewEngine(factory.CreateMetricsProvider(), units, snapshotter.DiffOptions{
		Uniform:          cfg.UniformDiff,
		ExcludeProcesses: cfg.ExcludeProcess,
	})

	loop := &snapshotter.Loop{
		Engine:      engine,
		Sink:        journal,
		Interval:    cfg.Interval,
		Warmup:      cfg.Warmup,
		Timeout:     cfg.Timeout,
		MaxFailures: cfg.MaxFailures,
	}

	if cfg.MetricsAddr == "" {
		return loop.Run(ctx)
	}

	srv := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithAddress(cfg.MetricsAddr),
	)
	loop.OnReady = func() { srv.SetReady(true) }

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	g.Go(func() error {
		defer stopServer()
		return loop.Run(loopCtx)
	})
	g.Go(func() error {
		return srv.Run(loopCtx)
	})
	return g.Wait()
}

func logHostInfo(ctx context.Context, p collector.InfoProvider) {
	info, err := p.Info(ctx)
	if err != nil {
		slog.Warn("failed to read host inventory", slog.String("error", err.Error()))
		return
	}
	slog.Info("host inventory",
		slog.String("hostname", info.Hostname),
		slog.String("os", info.OS),
		slog.String("osVersion", info.OSVersion),
		slog.String("kernelVersion", info.KernelVersion),
		slog.Int("cpuCount", info.CPUCount),
		slog.Uint64("totalMemory", info.TotalMemory),
		slog.Uint64("usedMemory", info.UsedMemory),
		slog.Uint64("totalSwap", info.TotalSwap),
		slog.Uint64("usedSwap", info.UsedSwap),
		slog.Int("disks", len(info.Disks)),
		slog.Int("components", len(info.Components)))
}
