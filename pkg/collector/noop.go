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

package collector

import (
	"context"

	"github.com/NVIDIA/idlelog/pkg/measurement"
)

// NoopUnitProvider stands in for the unit provider on hosts without a
// service manager.
type NoopUnitProvider struct{}

// Supported always returns false.
func (NoopUnitProvider) Supported() bool { return false }

// ListUnits always returns nil.
func (NoopUnitProvider) ListUnits(ctx context.Context) ([]measurement.UnitSample, error) {
	return nil, nil
}
