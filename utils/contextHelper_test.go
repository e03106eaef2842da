package utils

import (
	"context"
	"testing"
)

func TestContextValuesRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = SetUserIdInContext(ctx, 7)
	ctx = SetUserNameInContext(ctx, "System")
	ctx = SetCorrelationIdInContext(ctx, "msg-123")

	if id, ok := GetUserIdFromContext(ctx); !ok || id != 7 {
		t.Fatalf("user id round trip failed: %d %v", id, ok)
	}
	if name, ok := GetUserNameFromContext(ctx); !ok || name != "System" {
		t.Fatalf("user name round trip failed: %q %v", name, ok)
	}
	if cid, ok := GetCorrelationIdFromContext(ctx); !ok || cid != "msg-123" {
		t.Fatalf("correlation id round trip failed: %q %v", cid, ok)
	}

	if _, ok := GetCorrelationIdFromContext(context.Background()); ok {
		t.Fatal("missing correlation id must report absent")
	}
}
