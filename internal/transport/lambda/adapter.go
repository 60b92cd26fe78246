// Package lambda runs the handlers behind API Gateway proxy integrations.
package lambda

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"clipfeed/internal/httputil"
)

// Handler is the signature lambda.Start expects for API Gateway proxy events.
type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Adapt converts between API Gateway proxy events and the transport-neutral
// envelope. Failures are always reported as HTTP responses, never as
// invocation errors.
func Adapt(fn httputil.HandlerFunc) Handler {
	return func(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body := ev.Body
		if ev.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(ev.Body)
			if err != nil {
				log.Printf("[Lambda] Decode body FAILED: %s %s err=%v", ev.HTTPMethod, ev.Path, err)
				return toProxyResponse(httputil.BadRequest("Invalid request body")), nil
			}
			body = string(decoded)
		}

		req := httputil.Request{
			Method:  ev.HTTPMethod,
			Body:    body,
			Query:   ev.QueryStringParameters,
			Headers: ev.Headers,
		}

		return toProxyResponse(fn(ctx, req)), nil
	}
}

func toProxyResponse(res httputil.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      res.StatusCode,
		Headers:         res.Headers,
		Body:            res.Body,
		IsBase64Encoded: res.IsBase64Encoded,
	}
}
