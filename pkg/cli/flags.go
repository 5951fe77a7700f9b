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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/idlelog/pkg/defaults"
	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/serializer"
)

func fileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "journal file path",
		Sources: cli.EnvVars("IDLELOG_FILE"),
		Value:   defaults.JournalFile,
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatTable),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format %q, expected one of %s",
				cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", ")))
	}
	return f, nil
}

// outputFormat resolves the output format, inferring it from the --output
// file extension when --format was not given.
func outputFormat(cmd *cli.Command) (serializer.Format, error) {
	if output := cmd.String("output"); output != "" && !cmd.IsSet("format") {
		return serializer.FormatFromPath(output), nil
	}
	return parseOutputFormat(cmd)
}
