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
	"log/slog"

	"github.com/NVIDIA/idlelog/pkg/collector/host"
	"github.com/NVIDIA/idlelog/pkg/collector/systemd"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateMetricsProvider() MetricsProvider
	CreateUnitProvider(ctx context.Context) UnitProvider
	CreateInfoProvider() InfoProvider
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithUnitPatterns restricts unit listing to names matching the patterns.
func WithUnitPatterns(patterns []string) Option {
	return func(f *DefaultFactory) {
		f.UnitPatterns = patterns
	}
}

// WithUnits enables or disables service unit collection.
func WithUnits(enabled bool) Option {
	return func(f *DefaultFactory) {
		f.UnitsEnabled = enabled
	}
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	UnitPatterns []string
	UnitsEnabled bool

	// systemdAvailable is swapped in tests.
	systemdAvailable func(ctx context.Context) bool
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		UnitsEnabled:     true,
		systemdAvailable: systemd.Available,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateMetricsProvider creates the gopsutil-backed host provider.
func (f *DefaultFactory) CreateMetricsProvider() MetricsProvider {
	return host.NewProvider()
}

// CreateInfoProvider creates the host inventory provider.
func (f *DefaultFactory) CreateInfoProvider() InfoProvider {
	return host.NewProvider()
}

// CreateUnitProvider selects the systemd unit lister when the host runs
// systemd, and a no-op provider otherwise.
func (f *DefaultFactory) CreateUnitProvider(ctx context.Context) UnitProvider {
	if !f.UnitsEnabled {
		slog.Info("service unit collection disabled")
		return NoopUnitProvider{}
	}
	if f.systemdAvailable == nil || !f.systemdAvailable(ctx) {
		slog.Info("no service manager detected, service units will not be collected")
		return NoopUnitProvider{}
	}
	slog.Info("collecting systemd units", slog.Any("patterns", f.UnitPatterns))
	return &systemd.Collector{Patterns: f.UnitPatterns}
}
