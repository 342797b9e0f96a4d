package pulse

import (
	"fmt"
	"strings"
)

// SplitTargets splits a comma-separated target list. Entries are returned
// untrimmed; Resolve trims them.
func SplitTargets(arg string) []string {
	return strings.Split(arg, ",")
}

// ValidateTargets checks that every raw target contains a "/". It runs over
// the whole list before any probing so one malformed entry rejects the run.
func ValidateTargets(targets []string) error {
	if len(targets) == 0 {
		return ErrMissingTargets
	}
	for _, t := range targets {
		if !strings.Contains(t, "/") {
			return fmt.Errorf("%w: %q", ErrInvalidTargetForm, t)
		}
	}
	return nil
}

// Resolve trims a raw target and prefixes http:// unless it already starts
// with "http". The result is not otherwise validated; bad URLs surface as
// fetch failures.
func Resolve(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.HasPrefix(t, "http") {
		return t
	}
	return "http://" + t
}

// HostLabel extracts the display host from a resolved URL:
// "https://10.0.0.5:9090/x" yields "10.0.0.5:9090".
func HostLabel(url string) string {
	host := url
	if rest, ok := strings.CutPrefix(host, "https://"); ok {
		host = rest
	} else if rest, ok := strings.CutPrefix(host, "http://"); ok {
		host = rest
	}
	host, _, _ = strings.Cut(host, "/")
	return host
}
