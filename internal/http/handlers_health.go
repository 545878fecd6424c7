package httpx

import "net/http"

var healthBody = []byte(`{"status":"ok","service":"portal"}`)

// healthHandler answers liveness probes. It never touches the database or
// Redis, so load balancers keep the process in rotation during dependency
// hiccups. Readiness lives at /api/health on the relay API.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(healthBody)
}
