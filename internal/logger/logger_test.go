package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		wantErr bool
	}{
		{"prod", "", false},
		{"local", "debug", false},
		{"dev", "warn", false},
		{"test", "", false},
		{"staging", "", true},
		{"local", "loud", true},
	}
	for _, tc := range tests {
		t.Run(tc.env+"/"+tc.level, func(t *testing.T) {
			l, err := NewLogger(tc.env, tc.level)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil || l == nil {
				t.Fatalf("NewLogger: %v", err)
			}
		})
	}
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestWith_AddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.String("request_id", "abc"))
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "abc" {
		t.Errorf("fields = %v", entries[0].ContextMap())
	}
}

func TestEnsure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fallback := zap.New(core)

	ctx := Ensure(context.Background(), fallback)
	FromContext(ctx).Info("from fallback")
	if logs.Len() != 1 {
		t.Fatalf("expected fallback logger to be attached, got %d entries", logs.Len())
	}

	existing := zap.NewNop()
	ctx = Ensure(ContextWithLogger(context.Background(), existing), fallback)
	FromContext(ctx).Info("dropped")
	if logs.Len() != 1 {
		t.Error("Ensure should keep the logger already in context")
	}
}
