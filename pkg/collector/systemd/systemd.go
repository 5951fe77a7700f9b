package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/NVIDIA/idlelog/pkg/measurement"
	"github.com/coreos/go-systemd/v22/dbus"
)

// runtimeDir exists only while systemd is the running init system.
const runtimeDir = "/run/systemd/system"

// unitLister is the subset of *dbus.Conn used by the collector.
type unitLister interface {
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	ListUnitsByPatternsContext(ctx context.Context, states []string, patterns []string) ([]dbus.UnitStatus, error)
	Close()
}

func dialSystemd(ctx context.Context) (unitLister, error) {
	return dbus.NewSystemdConnectionContext(ctx)
}

// Available reports whether the host runs systemd and its bus is reachable.
func Available(ctx context.Context) bool {
	if _, err := os.Stat(runtimeDir); err != nil {
		return false
	}
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		slog.Debug("systemd bus unreachable", slog.String("error", err.Error()))
		return false
	}
	conn.Close()
	return true
}

// Collector lists systemd units over D-Bus.
type Collector struct {
	// Patterns limits listing to matching unit names. Empty lists all loaded units.
	Patterns []string

	mu   sync.Mutex
	conn unitLister
	dial func(ctx context.Context) (unitLister, error)
}

// Supported always returns true.
func (c *Collector) Supported() bool { return true }

// ListUnits returns every loaded unit sorted by name.
// The bus connection is opened lazily and dropped after a failed call so
// the next call reconnects.
func (c *Collector) ListUnits(ctx context.Context) ([]measurement.UnitSample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		dial := c.dial
		if dial == nil {
			dial = dialSystemd
		}
		conn, err := dial(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to connect to systemd", err)
		}
		c.conn = conn
	}

	var (
		statuses []dbus.UnitStatus
		err      error
	)
	if len(c.Patterns) > 0 {
		statuses, err = c.conn.ListUnitsByPatternsContext(ctx, nil, c.Patterns)
	} else {
		statuses, err = c.conn.ListUnitsContext(ctx)
	}
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return nil, errors.Wrap(errors.ErrCodeProviderFailure, "failed to list systemd units", err)
	}

	units := make([]measurement.UnitSample, 0, len(statuses))
	for _, s := range statuses {
		units = append(units, measurement.UnitSample{
			Name:        s.Name,
			Description: s.Description,
			LoadState:   s.LoadState,
			ActiveState: s.ActiveState,
			SubState:    s.SubState,
		})
	}
	measurement.SortUnits(units)

	slog.Debug("listed systemd units", slog.Int("count", len(units)))
	return units, nil
}

// Close releases the bus connection.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return nil
}

func (c *Collector) String() string {
	return fmt.Sprintf("systemd(%v)", c.Patterns)
}
