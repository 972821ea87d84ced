package tracing

import (
	"context"
	"testing"

	"github.com/C0n0r92/calc2/internal/logging"
)

func TestInitTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "test-service", "", logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := Tracer.Start(context.Background(), "probe")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestInitTracingWithEndpoint(t *testing.T) {
	// Non-routable address: nothing is exported because no span is ended.
	shutdown, err := InitTracing(context.Background(), "test-service", "http://192.0.2.1:4318", logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
