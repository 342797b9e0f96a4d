package pulse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// Fetcher retrieves the raw pulse body for a resolved URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Compile-time check that HTTPFetcher satisfies Fetcher.
var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher performs a plain GET with the client's default behaviour: no
// extra headers, no timeout beyond the client's own, default redirects.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher using client, or http.DefaultClient when
// client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch returns the full response body. Failures are *FetchError values
// carrying their classification.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", f.fail(url, fmt.Errorf("failed to build request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.fail(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", f.fail(url, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", f.fail(url, fmt.Errorf("failed to read body: %w", err))
	}

	return string(data), nil
}

func (f *HTTPFetcher) fail(url string, err error) error {
	return &FetchError{Kind: Classify(err), URL: url, Err: err}
}

// Classify maps an error from the fetch stage onto a FailureKind. Errors
// already carrying a classification keep it.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return FailureProtocol
	}
	if isMalformedResponse(err) {
		return FailureProtocol
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureConnectivity
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FailureConnectivity
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureConnectivity
	}

	return FailureUnknown
}

// isMalformedResponse matches the transport's errors for responses that are
// not valid HTTP; net/http exposes these only as text.
func isMalformedResponse(err error) bool {
	var protoErr *http.ProtocolError
	if errors.As(err, &protoErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed http") ||
		strings.Contains(msg, "server gave http response to https client")
}
