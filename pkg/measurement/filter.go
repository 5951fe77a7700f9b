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

package measurement

import (
	"cmp"
	"slices"
	"strings"
)

// ActiveProcesses returns the processes with CPU usage strictly greater than
// zero whose names match none of the exclude patterns, ordered by pid.
// The result is never nil.
func ActiveProcesses(procs map[uint32]ProcessSample, exclude []string) []ProcessSample {
	result := make([]ProcessSample, 0, len(procs))
	for _, p := range procs {
		if !p.IsActive() {
			continue
		}
		if MatchesAny(p.Name, exclude) {
			continue
		}
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b ProcessSample) int {
		return cmp.Compare(a.PID, b.PID)
	})
	return result
}

// SortUnits orders units by name in place and returns the slice.
func SortUnits(units []UnitSample) []UnitSample {
	slices.SortFunc(units, func(a, b UnitSample) int {
		return strings.Compare(a.Name, b.Name)
	})
	return units
}

// MatchesAny reports whether key matches at least one pattern.
func MatchesAny(key string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchesPattern(key, pattern) {
			return true
		}
	}
	return false
}

// MatchesPattern matches key against a pattern where '*' stands for any run of
// characters. A pattern without '*' must match exactly.
func MatchesPattern(key, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	segments := strings.Split(pattern, "*")

	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		// First segment is anchored unless the pattern starts with '*'.
		if i == 0 {
			if !strings.HasPrefix(key, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		// Last segment is anchored unless the pattern ends with '*'.
		if i == len(segments)-1 {
			return strings.HasSuffix(key[pos:], segment)
		}

		idx := strings.Index(key[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}

	return true
}
