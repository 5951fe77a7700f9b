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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/idlelog/pkg/serializer"
	"github.com/NVIDIA/idlelog/pkg/snapshotter"
)

// replayResult is the output of the replay command.
type replayResult struct {
	File     string               `json:"file" yaml:"file"`
	Records  int                  `json:"records" yaml:"records"`
	Snapshot snapshotter.Snapshot `json:"snapshot" yaml:"snapshot"`
}

func replayCmd() *cli.Command {
	return &cli.Command{
		Name:                  "replay",
		EnableShellCompletion: true,
		Usage:                 "Fold a journal into the last known host state.",
		Description: `Reads every record of the journal in order and merges each category it
carries into the held state. Categories absent from a record keep their
previous value.

Examples:

Print the final state of the default journal as a table:
  idlelog replay

Write it as YAML:
  idlelog replay --file idle-log.txt --format yaml --output state.yaml`,
		Flags: []cli.Flag{
			fileFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			return replay(ctx, cmd.String("file"), format, cmd.String("output"))
		},
	}
}

func replay(ctx context.Context, file string, format serializer.Format, output string) error {
	r, err := serializer.OpenJournalReader(file)
	if err != nil {
		return err
	}
	defer r.Close()

	snap, n, err := snapshotter.Replay(r)
	if err != nil {
		return err
	}
	slog.Debug("journal replayed", slog.String("file", file), slog.Int("records", n))

	w, err := serializer.NewFileWriterOrStdout(format, output)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Serialize(ctx, replayResult{
		File:     file,
		Records:  n,
		Snapshot: snap,
	})
}
