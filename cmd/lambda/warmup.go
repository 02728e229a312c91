// CloudWatch Events trigger warmup events periodically to keep instances
// warm and avoid cold starts on real requests.

package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/pricofy/localizer/internal/router"
)

const (
	// WarmupSource identifies warmup events from CloudWatch.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the
	// self-invocations to land on other instances.
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent is the CloudWatch Event payload for warmup.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned by warmup invocations.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// IsWarmupEvent reports whether event is a warmup event and decodes it.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil || warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

type warmer struct {
	client       router.Invoker
	functionName string
	delay        time.Duration
}

func newWarmer(client router.Invoker, functionName string) *warmer {
	return &warmer{client: client, functionName: functionName, delay: WarmupDelay}
}

// Handle answers a warmup event, self-invoking Concurrency more instances.
func (w *warmer) Handle(ctx context.Context, warmup *WarmupEvent) (*WarmupResponse, error) {
	warmed := 1
	if warmup.Concurrency > 0 && w.functionName != "" {
		warmed += w.selfInvoke(ctx, warmup.Concurrency)
	}

	time.Sleep(w.delay)

	return &WarmupResponse{Status: "warm", InstancesWarmed: warmed}, nil
}

// selfInvoke asynchronously invokes this function count times and returns
// how many invocations were accepted.
func (w *warmer) selfInvoke(ctx context.Context, count int) int {
	// Children get concurrency 0 so they do not fan out again.
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return 0
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return accepted
}
