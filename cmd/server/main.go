// Command server runs the auth and video handlers behind a single chi router
// for local development and container deployments.
package main

import (
	"log"

	httptransport "clipfeed/internal/transport/http"
)

func main() {
	if err := httptransport.Run(); err != nil {
		log.Fatalf("[Server] Exited with error: %v", err)
	}
}
