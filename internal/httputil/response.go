package httputil

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// Request is the transport-neutral view of an incoming invocation. Both the
// Lambda adapter and the HTTP router build one before calling a handler.
type Request struct {
	Method  string
	Body    string
	Query   map[string]string
	Headers map[string]string
}

// QueryParam returns a query parameter or "".
func (r Request) QueryParam(key string) string {
	if r.Query == nil {
		return ""
	}
	return r.Query[key]
}

// Header returns a header value or "". API Gateway may deliver lowercased
// names, so the lookup ignores case.
func (r Request) Header(key string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Response is the serverless response envelope.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
}

// CORS describes the preflight answer of one handler.
type CORS struct {
	AllowMethods string
	AllowHeaders string
}

// Preflight answers an OPTIONS request: 200 with an empty body.
func (c CORS) Preflight() Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": c.AllowMethods,
			"Access-Control-Allow-Headers": c.AllowHeaders,
		},
		Body: "",
	}
}

// JSON builds a JSON response with the given status code
func JSON(status int, data interface{}) Response {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("[httputil] JSON encode FAILED: status=%d err=%v", status, err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}

	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}

// Error builds an error response: {"error": "Human readable message"}
func Error(status int, message string) Response {
	return JSON(status, ErrorResponse{Error: message})
}

// Common error response helpers

// BadRequest builds a 400 Bad Request error
func BadRequest(message string) Response {
	return Error(http.StatusBadRequest, message)
}

// Unauthorized builds a 401 Unauthorized error
func Unauthorized(message string) Response {
	return Error(http.StatusUnauthorized, message)
}

// MethodNotAllowed builds the 405 answer for unmatched methods and actions
func MethodNotAllowed() Response {
	return Error(http.StatusMethodNotAllowed, "Method not allowed")
}

// ServiceUnavailable builds a 503 error for optional features that are switched off
func ServiceUnavailable(message string) Response {
	return Error(http.StatusServiceUnavailable, message)
}

// InternalError builds a 500 Internal Server Error
func InternalError() Response {
	return Error(http.StatusInternalServerError, "Internal server error")
}

// Write copies a Response onto an http.ResponseWriter.
func Write(w http.ResponseWriter, res Response) {
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(res.StatusCode)

	if res.Body != "" {
		if _, err := w.Write([]byte(res.Body)); err != nil {
			// Headers already sent, nothing left to recover
			log.Printf("[httputil] Write body FAILED: err=%v", err)
		}
	}
}

// HandlerFunc is a transport-neutral handler. The chi router and the Lambda
// runtime both adapt to it.
type HandlerFunc func(ctx context.Context, req Request) Response
