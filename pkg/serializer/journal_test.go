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

package serializer

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	idlerrors "github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Timestamp string   `json:"timestamp"`
	Used      *uint64  `json:"used_memory,omitempty"`
	CPUs      []string `json:"cpu_data,omitempty"`
}

func TestOpenJournal_CreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle-log.txt")
	used := uint64(1000)

	j, err := OpenJournal(path)
	require.NoError(t, err)
	assert.Equal(t, path, j.Path())

	require.NoError(t, j.Append(context.Background(), sample{Timestamp: "t1", Used: &used}))
	require.NoError(t, j.Append(context.Background(), sample{Timestamp: "t2", CPUs: []string{"a"}}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`{"timestamp":"t1","used_memory":1000}`+"\n"+`{"timestamp":"t2","cpu_data":["a"]}`+"\n",
		string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm()&0o600, "owner can read and write")
}

func TestOpenJournal_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle-log.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp":"old"}`+"\n"), 0o600))

	j, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(context.Background(), sample{Timestamp: "new"}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "old")
	assert.Contains(t, lines[1], "new")
}

func TestOpenJournal_Failure(t *testing.T) {
	_, err := OpenJournal(filepath.Join(t.TempDir(), "missing", "idle-log.txt"))
	require.Error(t, err)
	assert.True(t, idlerrors.HasCode(err, idlerrors.ErrCodeIOFailure))
}

func TestJournal_SerializationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle-log.txt")
	j, err := OpenJournal(path)
	require.NoError(t, err)
	defer j.Close()

	err = j.Append(context.Background(), map[string]float64{"cpu": math.NaN()})
	require.Error(t, err)
	assert.True(t, idlerrors.HasCode(err, idlerrors.ErrCodeSerializationFailure))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestJournal_AppendAfterClose(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "idle-log.txt"))
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	err = j.Append(context.Background(), sample{Timestamp: "t"})
	require.Error(t, err)
	assert.True(t, idlerrors.HasCode(err, idlerrors.ErrCodeIOFailure))
}

// flakyFile fails the first failures writes after writing half the line.
type flakyFile struct {
	buf       bytes.Buffer
	failures  int
	truncates int
}

func (f *flakyFile) Write(p []byte) (int, error) {
	if f.failures > 0 {
		f.failures--
		half := len(p) / 2
		f.buf.Write(p[:half])
		return half, errors.New("no space left on device")
	}
	return f.buf.Write(p)
}

func (f *flakyFile) Close() error { return nil }

func (f *flakyFile) Stat() (os.FileInfo, error) {
	return sizeInfo{size: int64(f.buf.Len())}, nil
}

func (f *flakyFile) Truncate(size int64) error {
	f.truncates++
	f.buf.Truncate(int(size))
	return nil
}

type sizeInfo struct {
	os.FileInfo
	size int64
}

func (s sizeInfo) Size() int64 { return s.size }

func TestJournal_RetryAfterPartialWrite(t *testing.T) {
	f := &flakyFile{failures: 1}
	f.buf.WriteString("{\"timestamp\":\"t0\"}\n")
	j := &Journal{path: "mem", file: f}

	require.NoError(t, j.Append(context.Background(), sample{Timestamp: "t1"}))

	assert.Equal(t, 1, f.truncates)
	assert.Equal(t, "{\"timestamp\":\"t0\"}\n{\"timestamp\":\"t1\"}\n", f.buf.String())
}

func TestJournal_SecondFailureIsFatal(t *testing.T) {
	f := &flakyFile{failures: 2}
	f.buf.WriteString("{\"timestamp\":\"t0\"}\n")
	j := &Journal{path: "mem", file: f}

	err := j.Append(context.Background(), sample{Timestamp: "t1"})
	require.Error(t, err)
	assert.True(t, idlerrors.HasCode(err, idlerrors.ErrCodeIOFailure))

	assert.Equal(t, 2, f.truncates)
	assert.Equal(t, "{\"timestamp\":\"t0\"}\n", f.buf.String(), "partial record discarded")
}
