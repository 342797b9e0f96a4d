package pulse

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"nslpulse/internal/ui"
)

const (
	// FieldCount is the number of ':'-separated fields in a pulse body.
	FieldCount = 9

	// Delimiter separates pulse fields.
	Delimiter = ":"

	kibPerGiB = 1048576
)

// Field indices in schema order.
const (
	FieldCPU = iota
	FieldDatabase
	FieldUptime
	FieldTotalDisk
	FieldFreeDisk
	FieldDiskUsage
	FieldTotalRAM
	FieldFreeRAM
	FieldRAMUsage
)

var fieldNames = [FieldCount]string{
	"cpu",
	"database_up",
	"uptime_seconds",
	"total_disk_kb",
	"free_disk_kb",
	"disk_usage_pct",
	"total_ram_kb",
	"free_ram_kb",
	"ram_usage_pct",
}

// Report is a decoded pulse body. Verbatim fields keep the server's text.
type Report struct {
	Host       string
	CPU        string
	DatabaseUp bool

	// Uptime is displayed verbatim; UptimeSeconds is its parsed value.
	Uptime        string
	UptimeSeconds float64

	TotalDiskKB float64
	FreeDiskKB  float64
	DiskUsage   string
	TotalRAMKB  float64
	FreeRAMKB   float64
	RAMUsage    string
}

// Decode parses a pulse body fetched from url. A body that does not split
// into exactly FieldCount fields yields ErrSchemaMismatch and no report.
func Decode(body, url string) (*Report, error) {
	fields := strings.Split(body, Delimiter)
	if len(fields) != FieldCount {
		return nil, fmt.Errorf("%w: got %d fields, want %d", ErrSchemaMismatch, len(fields), FieldCount)
	}

	var nums [FieldCount]float64
	for _, i := range []int{FieldUptime, FieldTotalDisk, FieldFreeDisk, FieldTotalRAM, FieldFreeRAM} {
		v, err := parseNumber(fields[i])
		if err != nil {
			return nil, &FieldError{Index: i, Name: fieldNames[i], Value: fields[i], Err: err}
		}
		nums[i] = v
	}

	return &Report{
		Host:          HostLabel(url),
		CPU:           fields[FieldCPU],
		DatabaseUp:    fields[FieldDatabase] == "1",
		Uptime:        fields[FieldUptime],
		UptimeSeconds: nums[FieldUptime],
		TotalDiskKB:   nums[FieldTotalDisk],
		FreeDiskKB:    nums[FieldFreeDisk],
		DiskUsage:     fields[FieldDiskUsage],
		TotalRAMKB:    nums[FieldTotalRAM],
		FreeRAMKB:     nums[FieldFreeRAM],
		RAMUsage:      fields[FieldRAMUsage],
	}, nil
}

// parseNumber tolerates surrounding whitespace. NaN and Inf are rejected on
// purpose even though they parse: a field error is reported instead of a
// "NaNgb" or "+Infgb" line.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// KBToGB converts kibibytes to gibibytes rounded to two decimals, half away
// from zero.
func KBToGB(kb float64) float64 {
	return math.Round(kb/kibPerGiB*100) / 100
}

// FormatGB renders a kibibyte amount as gibibytes with a "gb" suffix,
// keeping at least one fractional digit: 5242880 -> "5.0gb".
func FormatGB(kb float64) string {
	s := strconv.FormatFloat(KBToGB(kb), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "gb"
}

// DatabaseState returns "up" or "down".
func (r *Report) DatabaseState() string {
	if r.DatabaseUp {
		return "up"
	}
	return "down"
}

// Field is one labelled line of a rendered report.
type Field struct {
	Label string
	Value string
}

// Fields returns the report body in display order. Free amounts precede
// totals for both disk and ram.
func (r *Report) Fields() []Field {
	return []Field{
		{"host", r.Host},
		{"cpu", r.CPU},
		{"database", r.DatabaseState()},
		{"uptime", r.Uptime + " second(s)"},
		{"free disk", FormatGB(r.FreeDiskKB)},
		{"total disk", FormatGB(r.TotalDiskKB)},
		{"free ram", FormatGB(r.FreeRAMKB)},
		{"total ram", FormatGB(r.TotalRAMKB)},
		{"disk usage", r.DiskUsage},
		{"ram usage", r.RAMUsage},
	}
}

// Render writes the alive banner followed by the report fields.
func Render(w io.Writer, r *Report, st ui.Styles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Success.Render("is alive..."))
	for _, f := range r.Fields() {
		fmt.Fprintf(w, "%s %s\n", st.Label.Render(f.Label+":"), f.Value)
	}
}
