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

package snapshotter

import (
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/idlelog/pkg/defaults"
	"github.com/NVIDIA/idlelog/pkg/errors"
	"k8s.io/utils/clock"
)

// Sink persists accepted records.
type Sink interface {
	Append(ctx context.Context, v any) error
}

// Loop drives the engine at a fixed cadence and persists accepted records.
type Loop struct {
	Engine *Engine
	Sink   Sink

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Interval between cycle starts. Raised to Warmup when shorter.
	Interval time.Duration

	// Warmup is the minimum time between CPU readings for usage deltas to
	// be valid.
	Warmup time.Duration

	// Timeout bounds each cycle's provider calls. Zero disables it.
	Timeout time.Duration

	// MaxFailures turns that many consecutive skipped cycles into a fatal
	// error. Zero means never.
	MaxFailures int

	// OnReady is called once after warm-up, before the first cycle.
	OnReady func()

	snapshot Snapshot
	failures int
	started  bool
}

func (l *Loop) clock() clock.Clock {
	if l.Clock == nil {
		l.Clock = clock.RealClock{}
	}
	return l.Clock
}

func (l *Loop) interval() time.Duration {
	iv := l.Interval
	if iv <= 0 {
		iv = defaults.SampleInterval
	}
	if iv < l.Warmup {
		iv = l.Warmup
	}
	return iv
}

// Snapshot returns the held snapshot.
func (l *Loop) Snapshot() Snapshot {
	return l.snapshot
}

// Start initializes the held snapshot at the current time. Run calls it;
// it is exported for callers driving Cycle directly.
func (l *Loop) Start() {
	l.snapshot = NewSnapshot(l.clock().Now())
	l.failures = 0
	l.started = true
}

// Run primes the providers, then cycles until ctx is canceled or a cycle
// fails fatally. Cancellation returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.Engine == nil || l.Sink == nil {
		return errors.New(errors.ErrCodeInternal, "loop requires an engine and a sink")
	}

	l.Start()
	interval := l.interval()

	slog.Info("starting sampling loop",
		slog.Duration("interval", interval),
		slog.Duration("warmup", l.Warmup),
		slog.Duration("timeout", l.Timeout),
		slog.Bool("uniform", l.Engine.Options.Uniform),
		slog.Bool("units", l.Engine.Units != nil && l.Engine.Units.Supported()))

	if err := l.prime(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("priming sample failed, first cycle may report zero cpu usage",
			slog.String("error", err.Error()))
	}
	if l.OnReady != nil {
		l.OnReady()
	}

	for {
		start := l.clock().Now()
		if _, err := l.cycle(ctx, start); err != nil {
			return err
		}

		// cycles start on a fixed cadence; an overrunning cycle is
		// followed immediately by the next one
		wait := interval - l.clock().Since(start)
		if wait <= 0 {
			slog.Debug("cycle overran interval", slog.Duration("overrun", -wait))
			if ctx.Err() != nil {
				slog.Info("sampling loop stopped")
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			slog.Info("sampling loop stopped")
			return nil
		case <-l.clock().After(wait):
		}
	}
}

// prime takes a throwaway sample so the first real cycle reads CPU usage
// over at least Warmup.
func (l *Loop) prime(ctx context.Context) error {
	cctx, cancel := l.cycleContext(ctx)
	_, err := l.Engine.Sample(cctx)
	cancel()
	if err != nil {
		return err
	}
	if l.Warmup <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.clock().After(l.Warmup):
		return nil
	}
}

func (l *Loop) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.Timeout > 0 {
		return context.WithTimeout(ctx, l.Timeout)
	}
	return context.WithCancel(ctx)
}

// Cycle runs one sample-diff-persist step. It reports whether a record was
// written. Provider failures skip the cycle and only return an error once
// MaxFailures is reached; sink failures are always returned and leave the
// held snapshot unchanged.
func (l *Loop) Cycle(ctx context.Context) (bool, error) {
	return l.cycle(ctx, l.clock().Now())
}

// cycle runs one step stamped with start.
func (l *Loop) cycle(ctx context.Context, start time.Time) (bool, error) {
	if !l.started {
		l.Start()
	}

	cctx, cancel := l.cycleContext(ctx)
	emit, next, rec, err := l.Engine.Tick(cctx, l.snapshot, start)
	cancel()
	cycleDuration.Observe(l.clock().Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, l.skip(err)
	}
	l.failures = 0
	consecutiveFailures.Set(0)

	if !emit {
		l.snapshot = next
		cyclesTotal.WithLabelValues(resultUnchanged).Inc()
		return false, nil
	}

	if err := l.Sink.Append(ctx, rec); err != nil {
		slog.Error("failed to persist record", slog.String("error", err.Error()))
		return false, err
	}
	l.snapshot = next

	cyclesTotal.WithLabelValues(resultEmitted).Inc()
	lastEmitTimestamp.Set(float64(start.Unix()))
	changed := rec.Changed()
	for _, c := range changed {
		categoryChangesTotal.WithLabelValues(string(c)).Inc()
	}
	slog.Debug("record emitted",
		slog.String("timestamp", rec.Timestamp),
		slog.Any("changed", changed))

	return true, nil
}

func (l *Loop) skip(err error) error {
	l.failures++
	consecutiveFailures.Set(float64(l.failures))
	cyclesTotal.WithLabelValues(resultSkipped).Inc()

	slog.Warn("skipping cycle",
		slog.String("code", string(errors.CodeOf(err))),
		slog.String("error", err.Error()),
		slog.Int("consecutive", l.failures))

	if l.MaxFailures > 0 && l.failures >= l.MaxFailures {
		code := errors.CodeOf(err)
		if code == "" {
			code = errors.ErrCodeProviderFailure
		}
		return errors.WrapWithContext(code, "too many consecutive failed cycles", err,
			map[string]any{"failures": l.failures})
	}
	return nil
}
