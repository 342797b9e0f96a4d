// Package pulse implements the probe pipeline of the NSL Pulse client:
// target resolution, HTTP fetch, decoding of the nine-field pulse string,
// and per-host reporting.
//
// A run validates the whole target list up front and aborts if any entry is
// malformed, while fetch and decode failures only affect their own target.
package pulse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"nslpulse/internal/ui"
)

// Banner is printed once a target list has passed validation.
const Banner = "NSL Pulse CLI Reporting Client"

// OutcomeKind is the result class of probing one target.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSchemaMismatch
	OutcomeFetchError
	OutcomeInvalidTarget
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSchemaMismatch:
		return "schema mismatch"
	case OutcomeFetchError:
		return "fetch error"
	case OutcomeInvalidTarget:
		return "invalid target"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of probing a single target.
type Outcome struct {
	// Target is the trimmed target as supplied by the caller.
	Target string
	// URL is the resolved URL; empty for invalid targets.
	URL  string
	Kind OutcomeKind

	// Report is set for OutcomeSuccess.
	Report *Report
	// Failure is set for OutcomeFetchError.
	Failure FailureKind
	Err     error
}

// Runner probes targets sequentially and writes the report to out.
type Runner struct {
	fetcher Fetcher
	out     io.Writer
	styles  ui.Styles
}

// NewRunner creates a Runner. Styles are derived from out.
func NewRunner(fetcher Fetcher, out io.Writer) *Runner {
	return &Runner{
		fetcher: fetcher,
		out:     out,
		styles:  ui.NewStyles(out),
	}
}

// Run validates targets, then probes each in order. The returned error is
// non-nil only for argument errors, in which case nothing was probed.
func (r *Runner) Run(ctx context.Context, targets []string) ([]Outcome, error) {
	if err := ValidateTargets(targets); err != nil {
		fmt.Fprintln(r.out, r.styles.Failure.Render(argumentMessage(err)))
		var outcomes []Outcome
		if errors.Is(err, ErrInvalidTargetForm) {
			outcomes = []Outcome{{Kind: OutcomeInvalidTarget, Target: firstInvalid(targets), Err: err}}
		}
		return outcomes, err
	}

	fmt.Fprintln(r.out, r.styles.Title.Render(Banner))

	outcomes := make([]Outcome, 0, len(targets))
	for _, t := range targets {
		outcomes = append(outcomes, r.probe(ctx, t))
	}
	return outcomes, nil
}

// probe runs resolve, fetch, and decode for one target and renders the
// result. It never returns an error; failures become the outcome.
func (r *Runner) probe(ctx context.Context, raw string) Outcome {
	url := Resolve(raw)
	out := Outcome{Target: strings.TrimSpace(raw), URL: url}

	// The progress line shows the URL actually fetched, scheme included.
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.Progress.Render("probing "+url))

	body, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return r.failed(out, Classify(err), err)
	}

	report, err := Decode(body, url)
	switch {
	case errors.Is(err, ErrSchemaMismatch):
		fmt.Fprintln(r.out, r.styles.Failure.Render("failed..."))
		out.Kind = OutcomeSchemaMismatch
		out.Err = err
		return out
	case err != nil:
		return r.failed(out, FailureUnknown, err)
	}

	Render(r.out, report, r.styles)
	out.Kind = OutcomeSuccess
	out.Report = report
	return out
}

func (r *Runner) failed(out Outcome, kind FailureKind, err error) Outcome {
	fmt.Fprintln(r.out, r.styles.Warning.Render(fmt.Sprintf("pulse error for %s, %s", out.Target, kind)))
	out.Kind = OutcomeFetchError
	out.Failure = kind
	out.Err = err
	return out
}

// argumentMessage returns the user-facing text for an argument error,
// without the offending value.
func argumentMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingTargets):
		return ErrMissingTargets.Error()
	case errors.Is(err, ErrInvalidTargetForm):
		return ErrInvalidTargetForm.Error()
	default:
		return err.Error()
	}
}

func firstInvalid(targets []string) string {
	for _, t := range targets {
		if !strings.Contains(t, "/") {
			return strings.TrimSpace(t)
		}
	}
	return ""
}
