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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/idlelog/pkg/collector"
	"github.com/NVIDIA/idlelog/pkg/serializer"
)

func sysinfoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "sysinfo",
		EnableShellCompletion: true,
		Usage:                 "Print host inventory.",
		Description: `Prints host name, operating system, kernel version, CPU count, memory
and swap totals, mounted disks and temperature sensors.

Examples:

  idlelog sysinfo
  idlelog sysinfo --format json --output host.json`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			return sysinfo(ctx, collector.NewDefaultFactory().CreateInfoProvider(), format, cmd.String("output"))
		},
	}
}

func sysinfo(ctx context.Context, p collector.InfoProvider, format serializer.Format, output string) error {
	info, err := p.Info(ctx)
	if err != nil {
		return err
	}

	w, err := serializer.NewFileWriterOrStdout(format, output)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Serialize(ctx, info)
}
