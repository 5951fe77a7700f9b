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

// Package systemd lists systemd units over D-Bus.
//
// The collector keeps one bus connection, opened on first use and dropped
// whenever a call fails, so a restarted dbus daemon is picked up on the next
// cycle.
//
// # Usage
//
//	if systemd.Available(ctx) {
//	    c := &systemd.Collector{Patterns: []string{"*.service"}}
//	    defer c.Close()
//
//	    units, err := c.ListUnits(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    for _, u := range units {
//	        fmt.Println(u.Name, u.ActiveState, u.SubState)
//	    }
//	}
//
// # Data Format
//
// Each unit carries its name, description, load state, active state and
// sub state as reported by ListUnits. Results are sorted by name.
//
// # Availability
//
// Available checks for /run/systemd/system and a reachable system bus. Hosts
// failing either check should use a no-op unit provider instead.
package systemd
