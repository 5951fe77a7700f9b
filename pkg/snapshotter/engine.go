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
	"sync"
	"time"

	"github.com/NVIDIA/idlelog/pkg/collector"
	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/measurement"
)

// Engine pulls readings from the providers and diffs them against a
// held snapshot.
type Engine struct {
	Metrics collector.MetricsProvider
	Units   collector.UnitProvider
	Options DiffOptions

	// busy is held while a sample runs, including one abandoned by a
	// timed-out caller.
	busy sync.Mutex
}

// NewEngine creates an engine. A nil unit provider disables units.
func NewEngine(metrics collector.MetricsProvider, units collector.UnitProvider, opts DiffOptions) *Engine {
	if units == nil {
		units = collector.NoopUnitProvider{}
	}
	return &Engine{
		Metrics: metrics,
		Units:   units,
		Options: opts,
	}
}

// Sample refreshes the providers and returns their readings. It returns a
// TIMEOUT error when ctx ends first, or when an earlier sample abandoned
// by its caller has not returned yet.
func (e *Engine) Sample(ctx context.Context) (Readings, error) {
	if !e.busy.TryLock() {
		return Readings{}, errors.New(errors.ErrCodeTimeout, "previous sample still running")
	}

	type result struct {
		r   Readings
		err error
	}
	ch := make(chan result, 1)

	go func() {
		defer e.busy.Unlock()
		r, err := e.sample(ctx)
		ch <- result{r: r, err: err}
	}()

	select {
	case res := <-ch:
		return res.r, res.err
	case <-ctx.Done():
		return Readings{}, errors.Wrap(errors.ErrCodeTimeout, "sampling did not complete in time", ctx.Err())
	}
}

func (e *Engine) sample(ctx context.Context) (Readings, error) {
	if e.Metrics == nil {
		return Readings{}, errors.New(errors.ErrCodeInternal, "metrics provider not configured")
	}

	if err := e.Metrics.Refresh(ctx); err != nil {
		return Readings{}, asProviderFailure("failed to refresh metrics", err)
	}

	r := Readings{
		UsedMemory: e.Metrics.UsedMemory(),
		UsedSwap:   e.Metrics.UsedSwap(),
		CPUs:       e.Metrics.CPUs(),
		Processes:  e.Metrics.Processes(),
	}

	if e.Units != nil && e.Units.Supported() {
		units, err := e.Units.ListUnits(ctx)
		if err != nil {
			return Readings{}, asProviderFailure("failed to list service units", err)
		}
		if units == nil {
			units = []measurement.UnitSample{}
		}
		r.Units = units
	}

	return r, nil
}

// Tick runs one engine step against prev. start is the cycle start time.
// On error prev is returned unchanged.
func (e *Engine) Tick(ctx context.Context, prev Snapshot, start time.Time) (bool, Snapshot, *Record, error) {
	r, err := e.Sample(ctx)
	if err != nil {
		return false, prev, nil, err
	}
	next, rec := Diff(prev, r, start, e.Options)
	return rec != nil, next, rec, nil
}

// asProviderFailure keeps an existing code and tags anything else as a
// provider failure.
func asProviderFailure(msg string, err error) error {
	if code := errors.CodeOf(err); code != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeProviderFailure, msg, err)
}
