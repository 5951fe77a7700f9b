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
	"errors"
	"testing"
	"time"

	idlerrors "github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/measurement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_DefaultsUnitProvider(t *testing.T) {
	e := NewEngine(&fakeMetrics{}, nil, DiffOptions{})
	require.NotNil(t, e.Units)
	assert.False(t, e.Units.Supported())
}

func TestEngine_Sample(t *testing.T) {
	m := &fakeMetrics{queue: []Readings{baseReadings()}}
	u := &fakeUnits{units: []measurement.UnitSample{{Name: "x.service"}}}
	e := NewEngine(m, u, DiffOptions{})

	r, err := e.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), r.UsedMemory)
	assert.Equal(t, uint64(10), r.UsedSwap)
	assert.Len(t, r.CPUs, 1)
	assert.Len(t, r.Processes, 2)
	assert.Equal(t, u.units, r.Units)
}

func TestEngine_Sample_NilUnitsBecomeEmpty(t *testing.T) {
	e := NewEngine(&fakeMetrics{queue: []Readings{baseReadings()}}, &fakeUnits{}, DiffOptions{})

	r, err := e.Sample(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, r.Units)
	assert.Empty(t, r.Units)
}

func TestEngine_Sample_UnsupportedUnits(t *testing.T) {
	e := NewEngine(&fakeMetrics{queue: []Readings{baseReadings()}}, nil, DiffOptions{})

	r, err := e.Sample(context.Background())
	require.NoError(t, err)
	assert.Nil(t, r.Units)
}

func TestEngine_Sample_Errors(t *testing.T) {
	tests := []struct {
		name    string
		metrics error
		units   error
		want    idlerrors.ErrorCode
	}{
		{"metrics failure", errors.New("proc unreadable"), nil, idlerrors.ErrCodeProviderFailure},
		{"units failure", nil, errors.New("bus down"), idlerrors.ErrCodeProviderFailure},
		{"coded error kept", idlerrors.New(idlerrors.ErrCodeTimeout, "slow"), nil, idlerrors.ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMetrics{queue: []Readings{baseReadings()}, err: tt.metrics}
			e := NewEngine(m, &fakeUnits{err: tt.units}, DiffOptions{})

			_, err := e.Sample(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, idlerrors.CodeOf(err))
		})
	}
}

func TestEngine_Sample_Timeout(t *testing.T) {
	block := make(chan struct{})
	m := &fakeMetrics{queue: []Readings{baseReadings()}, block: block}
	e := NewEngine(m, nil, DiffOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.Sample(ctx)
	require.Error(t, err)
	assert.True(t, idlerrors.HasCode(err, idlerrors.ErrCodeTimeout))

	// the abandoned sample still holds the engine
	_, err = e.Sample(context.Background())
	require.Error(t, err)
	assert.True(t, idlerrors.HasCode(err, idlerrors.ErrCodeTimeout))

	m.mu.Lock()
	m.block = nil
	m.mu.Unlock()
	close(block)

	require.Eventually(t, func() bool {
		_, err := e.Sample(context.Background())
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_Tick(t *testing.T) {
	changed := baseReadings()
	changed.CPUs = []measurement.CPUSample{{CPUUsage: 42, Frequency: 2400}}

	m := &fakeMetrics{queue: []Readings{baseReadings(), baseReadings(), changed}}
	e := NewEngine(m, nil, DiffOptions{})
	ctx := context.Background()

	snap := NewSnapshot(t0)

	emit, snap, rec, err := e.Tick(ctx, snap, t1)
	require.NoError(t, err)
	assert.True(t, emit)
	require.NotNil(t, rec)

	emit, snap, rec, err = e.Tick(ctx, snap, t2)
	require.NoError(t, err)
	assert.False(t, emit)
	assert.Nil(t, rec)
	assert.Equal(t, FormatTimestamp(t1), snap.Timestamp)

	t3 := t2.Add(time.Second)
	emit, snap, rec, err = e.Tick(ctx, snap, t3)
	require.NoError(t, err)
	assert.True(t, emit)
	assert.Equal(t, changed.CPUs, rec.CPUs)
	assert.Nil(t, rec.Processes)
	assert.Equal(t, FormatTimestamp(t3), snap.Timestamp)
}

func TestEngine_Tick_ErrorKeepsSnapshot(t *testing.T) {
	m := &fakeMetrics{err: errors.New("boom")}
	e := NewEngine(m, nil, DiffOptions{})
	prev := NewSnapshot(t0)

	emit, next, rec, err := e.Tick(context.Background(), prev, t1)
	require.Error(t, err)
	assert.False(t, emit)
	assert.Nil(t, rec)
	assert.Equal(t, prev, next)
}
