// Package main is the entry point for the localizer Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/localizer/internal/awsconfig"
	"github.com/pricofy/localizer/internal/awstranslate"
	"github.com/pricofy/localizer/internal/config"
	"github.com/pricofy/localizer/internal/handler"
	"github.com/pricofy/localizer/internal/logging"
	"github.com/pricofy/localizer/internal/router"
	"github.com/pricofy/localizer/internal/translator"
)

type app struct {
	handler *handler.Handler
	warmer  *warmer
	logger  *zap.SugaredLogger
}

func main() {
	logger, err := logging.New("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := awsconfig.Load(context.Background(), "", "")
	if err != nil {
		logger.Fatalw("loading AWS configuration", "error", err)
	}

	a := &app{
		handler: handler.New(newService(cfg), logger),
		warmer:  newWarmer(lambdasdk.NewFromConfig(cfg), os.Getenv("AWS_LAMBDA_FUNCTION_NAME")),
		logger:  logger,
	}
	if n, err := strconv.Atoi(os.Getenv("LOCALIZE_MAX_CONCURRENCY")); err == nil && n > 0 {
		a.handler.MaxConcurrent = n
	}

	lambda.Start(a.handleRequest)
}

// newService picks the translation backend from $LOCALIZE_BACKEND.
func newService(cfg aws.Config) translator.Service {
	if os.Getenv("LOCALIZE_BACKEND") == config.BackendLambda {
		return router.New(cfg, os.Getenv("LOCALIZE_FUNCTION_PREFIX"))
	}
	return awstranslate.New(cfg)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection comes before any other processing.
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.Handle(ctx, warmup)
	}

	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}

	resp, err := a.handler.Handle(ctx, req)
	if err == nil && resp.Error != "" {
		a.logger.Warnw("localization request failed", "source", req.SourceLang, "error", resp.Error)
	}
	return resp, err
}
