// Command videofn is the video handler as an AWS Lambda function behind API Gateway.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"clipfeed/internal/app"
	"clipfeed/internal/config"
	lambdatransport "clipfeed/internal/transport/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The pool outlives a single invocation and is reused by warm starts.
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to init Video function: %v", err)
	}
	defer a.Close()

	lambda.Start(lambdatransport.Adapt(a.VideoHandler.Handle))
}
