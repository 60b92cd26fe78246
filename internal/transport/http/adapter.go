package http

import (
	"io"
	"log"
	"net/http"

	"clipfeed/internal/httputil"
)

// maxBodyBytes bounds request bodies; every command body is a small JSON object.
const maxBodyBytes = 1 << 20

// Adapt serves a transport-neutral handler over net/http. Repeated query
// parameters and headers keep their first value, as API Gateway does.
func Adapt(fn httputil.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Printf("[HTTP] Read body FAILED: %s %s err=%v", r.Method, r.URL.Path, err)
			httputil.Write(w, httputil.BadRequest("Invalid request body"))
			return
		}

		req := httputil.Request{
			Method:  r.Method,
			Body:    string(body),
			Query:   firstValues(r.URL.Query()),
			Headers: firstValues(r.Header),
		}

		httputil.Write(w, fn(r.Context(), req))
	}
}

func firstValues(in map[string][]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
