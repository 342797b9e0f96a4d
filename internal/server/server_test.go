package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nslpulse/internal/pulse"
	"nslpulse/internal/sysinfo"
)

type staticSource struct {
	sample sysinfo.Sample
	err    error
}

func (s staticSource) Collect(context.Context) (sysinfo.Sample, error) {
	return s.sample, s.err
}

var testSample = sysinfo.Sample{
	CPULoad:       0.25,
	DatabaseUp:    true,
	UptimeSeconds: 3600,
	TotalDiskKB:   10485760,
	FreeDiskKB:    5242880,
	TotalRAMKB:    20971520,
	FreeRAMKB:     10485760,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, src Source, logger *slog.Logger) *httptest.Server {
	t.Helper()
	h, err := NewHandler("/pulse", src, logger)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_ServesPulse(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, staticSource{sample: testSample}, slog.New(slog.NewTextHandler(&logs, nil)))

	resp, err := http.Get(srv.URL + "/pulse")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != testSample.Encode() {
		t.Errorf("expected body %q, got %q", testSample.Encode(), body)
	}
	if !strings.Contains(logs.String(), "pulse sent") {
		t.Errorf("expected served pulse to be logged, got:\n%s", logs.String())
	}
}

func TestHandler_RejectsOtherMethods(t *testing.T) {
	srv := newTestServer(t, staticSource{sample: testSample}, discardLogger())

	resp, err := http.Post(srv.URL+"/pulse", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHandler_CollectFailure(t *testing.T) {
	srv := newTestServer(t, staticSource{err: errors.New("no /proc")}, discardLogger())

	resp, err := http.Get(srv.URL + "/pulse")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}

func TestHandler_ProbedByClient(t *testing.T) {
	srv := newTestServer(t, staticSource{sample: testSample}, discardLogger())

	var out bytes.Buffer
	outcomes, err := pulse.NewRunner(pulse.NewHTTPFetcher(nil), &out).
		Run(context.Background(), []string{srv.URL + "/pulse", srv.URL + "/missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcomes[0].Kind != pulse.OutcomeSuccess {
		t.Fatalf("expected success, got %s: %v", outcomes[0].Kind, outcomes[0].Err)
	}
	r := outcomes[0].Report
	if r.CPU != "0.2500" || !r.DatabaseUp || r.Uptime != "3600" {
		t.Errorf("unexpected report: %+v", r)
	}
	if outcomes[1].Kind != pulse.OutcomeFetchError || outcomes[1].Failure != pulse.FailureProtocol {
		t.Errorf("expected protocol error for unknown path, got %s/%s", outcomes[1].Kind, outcomes[1].Failure)
	}
	if !strings.Contains(out.String(), "free disk: 5.0gb") {
		t.Errorf("expected rendered report, got:\n%s", out.String())
	}
}

func TestNewHandler_InvalidPath(t *testing.T) {
	for _, path := range []string{"/nsl pulse", "/nsl/{", "/a/{b}/{b}"} {
		t.Run(path, func(t *testing.T) {
			h, err := NewHandler(path, staticSource{sample: testSample}, discardLogger())
			if err == nil {
				t.Fatalf("expected error for path %q, got handler %v", path, h)
			}
			if !strings.Contains(err.Error(), "invalid pulse path") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	h, err := NewHandler("/pulse", staticSource{sample: testSample}, discardLogger())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, h, discardLogger())
	}()

	url := "http://" + ln.Addr().String() + "/pulse"
	body, err := pulse.NewHTTPFetcher(&http.Client{Timeout: 2 * time.Second}).Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("fetch from running server failed: %v", err)
	}
	if body != testSample.Encode() {
		t.Errorf("unexpected body %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServe_BadAddress(t *testing.T) {
	err := ListenAndServe(context.Background(), "256.0.0.1:bad", http.NotFoundHandler(), discardLogger())
	if err == nil {
		t.Fatal("expected listen error")
	}
}
