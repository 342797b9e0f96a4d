// Package sysinfo collects the host statistics published as a pulse string.
//
// All sizes are kibibytes (1024 bytes per KiB).
package sysinfo

import (
	"fmt"
	"strings"
)

const bytesPerKB = 1024

// Sample is one reading of host statistics.
type Sample struct {
	// CPULoad is the one-minute load average.
	CPULoad       float64
	DatabaseUp    bool
	UptimeSeconds uint64
	TotalDiskKB   uint64
	FreeDiskKB    uint64
	TotalRAMKB    uint64
	FreeRAMKB     uint64
}

// DiskUsage returns the used fraction of disk space, 0 when unknown.
func (s Sample) DiskUsage() float64 {
	return usage(s.FreeDiskKB, s.TotalDiskKB)
}

// RAMUsage returns the used fraction of memory, 0 when unknown.
func (s Sample) RAMUsage() float64 {
	return usage(s.FreeRAMKB, s.TotalRAMKB)
}

func usage(free, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return 1.0 - float64(free)/float64(total)
}

// Encode renders the sample as the nine ':'-separated pulse fields:
// cpu, database, uptime, total disk, free disk, disk usage, total ram,
// free ram, ram usage.
func (s Sample) Encode() string {
	db := 0
	if s.DatabaseUp {
		db = 1
	}
	fields := []string{
		fmt.Sprintf("%.4f", s.CPULoad),
		fmt.Sprintf("%d", db),
		fmt.Sprintf("%d", s.UptimeSeconds),
		fmt.Sprintf("%d", s.TotalDiskKB),
		fmt.Sprintf("%d", s.FreeDiskKB),
		fmt.Sprintf("%.4f", s.DiskUsage()),
		fmt.Sprintf("%d", s.TotalRAMKB),
		fmt.Sprintf("%d", s.FreeRAMKB),
		fmt.Sprintf("%.4f", s.RAMUsage()),
	}
	return strings.Join(fields, ":")
}
