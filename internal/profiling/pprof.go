// Package profiling exposes pprof endpoints on a separate localhost port.
package profiling

import (
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jonesrussell/shorty/internal/logger"
)

const defaultPprofPort = "6060"

// StartPprofServer starts a pprof server when ENABLE_PROFILING=true. The
// listener binds to localhost only; profiles are never reachable externally.
func StartPprofServer(log logger.Logger) {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPprofPort
	}
	addr := "localhost:" + port

	go func() {
		log.Info("Starting pprof server", logger.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Warn("pprof server error", logger.Error(err))
		}
	}()
}
