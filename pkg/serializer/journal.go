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
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/NVIDIA/idlelog/pkg/defaults"
	"github.com/NVIDIA/idlelog/pkg/errors"
)

// appendFile is the subset of *os.File the journal writes through.
type appendFile interface {
	io.WriteCloser
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
}

// Journal is an append-only JSON Lines file. It is opened once and held
// for the life of the process.
type Journal struct {
	mu   sync.Mutex
	path string
	file appendFile
}

// OpenJournal opens path for appending, creating it when missing.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaults.JournalFileMode)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIOFailure, "failed to open journal", err,
			map[string]any{"path": path})
	}
	slog.Debug("journal opened", slog.String("path", path))
	return &Journal{path: path, file: f}, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append encodes v as one line and writes it with a trailing newline.
// A failed write is rolled back to the previous file size and retried once.
// Encoding failures return SERIALIZATION_FAILURE and write failures
// IO_FAILURE; in both cases nothing is left in the file.
func (j *Journal) Append(ctx context.Context, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSerializationFailure, "failed to encode record", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return errors.NewWithContext(errors.ErrCodeIOFailure, "journal is closed",
			map[string]any{"path": j.path})
	}

	err = j.write(line)
	if err != nil {
		journalWriteRetries.Inc()
		slog.Warn("journal write failed, retrying",
			slog.String("path", j.path),
			slog.String("error", err.Error()))
		err = j.write(line)
	}
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIOFailure, "failed to append record", err,
			map[string]any{"path": j.path})
	}

	journalBytesWritten.Add(float64(len(line)))
	journalRecordsWritten.Inc()
	return nil
}

// write issues a single write of line. On failure any partial line is
// truncated away.
func (j *Journal) write(line []byte) error {
	info, err := j.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()

	n, err := j.file.Write(line)
	if err == nil && n < len(line) {
		err = io.ErrShortWrite
	}
	if err == nil {
		return nil
	}
	if n > 0 {
		if terr := j.file.Truncate(size); terr != nil {
			return stderrors.Join(err, terr)
		}
	}
	return err
}

// Close closes the journal file. Later appends fail.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIOFailure, "failed to close journal", err,
			map[string]any{"path": j.path})
	}
	return nil
}
