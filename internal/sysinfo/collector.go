package sysinfo

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// DefaultDatabaseProcesses are the process names that count as a running
// database.
var DefaultDatabaseProcesses = []string{"mysql", "mysqld", "mysqld.exe"}

// Collector reads host statistics with gopsutil.
type Collector struct {
	// MountPoint is the filesystem whose usage is reported.
	MountPoint string
	// DatabaseProcesses lists process names that mark the database as up.
	DatabaseProcesses []string
}

// NewCollector returns a Collector for mountPoint. An empty mount point
// means "/" and a nil process list means DefaultDatabaseProcesses.
func NewCollector(mountPoint string, dbProcesses []string) *Collector {
	if mountPoint == "" {
		mountPoint = "/"
	}
	if dbProcesses == nil {
		dbProcesses = DefaultDatabaseProcesses
	}
	return &Collector{MountPoint: mountPoint, DatabaseProcesses: dbProcesses}
}

// Collect takes a Sample. Load average and the database scan are best
// effort; disk, memory, and uptime failures are returned.
func (c *Collector) Collect(ctx context.Context) (Sample, error) {
	var s Sample

	if avg, err := load.AvgWithContext(ctx); err == nil {
		s.CPULoad = avg.Load1
	}

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("sysinfo: failed to read uptime: %w", err)
	}
	s.UptimeSeconds = uptime

	du, err := disk.UsageWithContext(ctx, c.MountPoint)
	if err != nil {
		return Sample{}, fmt.Errorf("sysinfo: failed to read disk usage for %s: %w", c.MountPoint, err)
	}
	s.TotalDiskKB = du.Total / bytesPerKB
	s.FreeDiskKB = du.Free / bytesPerKB

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("sysinfo: failed to read memory: %w", err)
	}
	s.TotalRAMKB = vm.Total / bytesPerKB
	s.FreeRAMKB = vm.Available / bytesPerKB

	s.DatabaseUp = c.databaseRunning(ctx)

	return s, nil
}

func (c *Collector) databaseRunning(ctx context.Context) bool {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if MatchesProcess(name, c.DatabaseProcesses) {
			return true
		}
	}
	return false
}

// MatchesProcess reports whether a process name, or the base of a path,
// equals one of names.
func MatchesProcess(name string, names []string) bool {
	base := filepath.Base(strings.TrimSpace(name))
	for _, n := range names {
		if n == name || n == base {
			return true
		}
	}
	return false
}
