package pulse

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

// newTextServer creates an httptest.Server answering every request with
// status and body.
func newTextServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func assertFetchKind(t *testing.T, err error, want FailureKind) {
	t.Helper()
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != want {
		t.Errorf("expected kind %s, got %s (%v)", want, fetchErr.Kind, fetchErr.Err)
	}
}

func TestHTTPFetcher_Success(t *testing.T) {
	srv := newTextServer(t, http.StatusOK, sampleBody)

	body, err := NewHTTPFetcher(nil).Fetch(context.Background(), srv.URL+"/h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != sampleBody {
		t.Errorf("expected body %q, got %q", sampleBody, body)
	}
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := newTextServer(t, status, "nope")

			_, err := NewHTTPFetcher(nil).Fetch(context.Background(), srv.URL+"/x")
			assertFetchKind(t, err, FailureProtocol)

			var statusErr *StatusError
			if !errors.As(err, &statusErr) || statusErr.StatusCode != status {
				t.Errorf("expected *StatusError with code %d, got %v", status, err)
			}
		})
	}
}

func TestHTTPFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(nil).Fetch(context.Background(), addr+"/x")
	assertFetchKind(t, err, FailureConnectivity)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := NewHTTPFetcher(client).Fetch(context.Background(), srv.URL+"/x")
	assertFetchKind(t, err, FailureConnectivity)
}

func TestHTTPFetcher_MalformedResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		conn.Read(buf)
		conn.Write([]byte("this is not http\r\n\r\n"))
	}()

	_, err = NewHTTPFetcher(nil).Fetch(context.Background(), "http://"+ln.Addr().String()+"/x")
	assertFetchKind(t, err, FailureProtocol)
}

func TestHTTPFetcher_UnsupportedScheme(t *testing.T) {
	_, err := NewHTTPFetcher(nil).Fetch(context.Background(), "httpx://host/x")
	assertFetchKind(t, err, FailureUnknown)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, FailureUnknown},
		{"status", &StatusError{StatusCode: 503, Status: "503 Service Unavailable"}, FailureProtocol},
		{"dns", &url.Error{Op: "Get", URL: "http://x/", Err: &net.DNSError{Err: "no such host", Name: "x"}}, FailureConnectivity},
		{"dial", &url.Error{Op: "Get", URL: "http://x/", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}, FailureConnectivity},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), FailureConnectivity},
		{"malformed", errors.New(`net/http: HTTP/1.x transport connection broken: malformed HTTP response "junk"`), FailureProtocol},
		{"field parse", &FieldError{Index: 2, Name: "uptime_seconds", Err: errors.New("bad")}, FailureUnknown},
		{"preclassified", &FetchError{Kind: FailureProtocol, Err: errors.New("x")}, FailureProtocol},
		{"other", errors.New("something odd"), FailureUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestFailureKind_String(t *testing.T) {
	for kind, want := range map[FailureKind]string{
		FailureProtocol:     "ProtocolError",
		FailureConnectivity: "ConnectivityError",
		FailureUnknown:      "UnknownError",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), got, want)
		}
	}
}
