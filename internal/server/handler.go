// Package server publishes the local pulse string over HTTP for probe
// clients.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"nslpulse/internal/sysinfo"
)

// Source produces the sample served on each request.
type Source interface {
	Collect(ctx context.Context) (sysinfo.Sample, error)
}

// Compile-time check that the gopsutil collector is a Source.
var _ Source = (*sysinfo.Collector)(nil)

// NewHandler returns a mux serving the pulse string at path. A path the mux
// cannot register is returned as an error.
func NewHandler(path string, src Source, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	if err := handle(mux, path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sample, err := src.Collect(r.Context())
		if err != nil {
			logger.Error("failed to collect pulse", "client", clientIP(r), "error", err)
			http.Error(w, "failed to collect pulse", http.StatusInternalServerError)
			return
		}

		body := sample.Encode()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, body)
		logger.Info("pulse sent", "client", clientIP(r), "pulse", body)
	}); err != nil {
		return nil, err
	}
	return mux, nil
}

// handle registers fn on mux, converting the mux's pattern panic into an
// error.
func handle(mux *http.ServeMux, path string, fn http.HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("server: invalid pulse path %q: %v", path, r)
		}
	}()
	mux.HandleFunc(path, fn)
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
