package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	executor "github.com/hanpama/graphdef/internal/executor"
	reqid "github.com/hanpama/graphdef/internal/reqid"
	schema "github.com/hanpama/graphdef/internal/schema"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func newTestHandler(t *testing.T, rt executor.Runtime, opts ...Option) *Handler {
	t.Helper()
	sdl := `type Query { hello: String }`
	sch, err := schema.BuildFromSDL(sdl)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return New(Execute(executor.NewExecutor(rt, sch)), opts...)
}

func TestForwardedHeaders(t *testing.T) {
	rt := executor.NewMockRuntime(nil)
	var captured metadata.MD
	rt.SetResolver("Query", "hello", func(ctx context.Context, src any, args map[string]any) (any, error) {
		captured, _ = metadata.FromOutgoingContext(ctx)
		return "world", nil
	})
	h := newTestHandler(t, rt, WithMetadataHeaders("X-Test"))

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test", "abc")
	req.Header.Set("X-Other", "nope")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if captured == nil || captured.Get("x-test")[0] != "abc" || len(captured.Get("x-other")) > 0 {
		t.Fatalf("metadata not propagated correctly: %v", captured)
	}
}

func TestForwardedHeadersDefaultEmpty(t *testing.T) {
	rt := executor.NewMockRuntime(nil)
	var captured metadata.MD
	rt.SetResolver("Query", "hello", func(ctx context.Context, src any, args map[string]any) (any, error) {
		captured, _ = metadata.FromOutgoingContext(ctx)
		return "world", nil
	})
	h := newTestHandler(t, rt)

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test", "abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if captured != nil && len(captured.Get("x-test")) > 0 {
		t.Fatalf("header should not be forwarded by default: %v", captured)
	}
}

func TestCORSAndPreflight(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt, WithCORS("*"))

	// simple request
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}

	// preflight
	pre := httptest.NewRequest("OPTIONS", "/", nil)
	pre.Header.Set("Origin", "http://example.com")
	pre.Header.Set("Access-Control-Request-Headers", "X-Test")
	pw := httptest.NewRecorder()
	h.ServeHTTP(pw, pre)
	if pw.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", pw.Code)
	}
	if pw.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight missing CORS header")
	}
	if pw.Header().Get("Access-Control-Allow-Headers") != "X-Test" {
		t.Fatalf("preflight missing allow headers")
	}
}

func TestMaxBodyBytes(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt, WithMaxBodyBytes(10))

	body := bytes.NewBufferString(`{"query":"1234567890"}`)
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	rt := executor.NewMockRuntime(nil)
	var capturedMD metadata.MD
	var capturedID string
	rt.SetResolver("Query", "hello", func(ctx context.Context, src any, args map[string]any) (any, error) {
		capturedMD, _ = metadata.FromOutgoingContext(ctx)
		capturedID, _ = reqid.FromContext(ctx)
		return "world", nil
	})
	h := newTestHandler(t, rt)

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, capturedID, "missing request id in context")
	require.Equal(t, []string{capturedID}, capturedMD.Get(reqid.Header))
	require.Equal(t, capturedID, w.Header().Get(reqid.Header))
}

func TestRequestIDFromHeader(t *testing.T) {
	rt := executor.NewMockRuntime(nil)
	var capturedID string
	rt.SetResolver("Query", "hello", func(ctx context.Context, src any, args map[string]any) (any, error) {
		capturedID, _ = reqid.FromContext(ctx)
		return "world", nil
	})
	h := newTestHandler(t, rt)

	id := uuid.NewString()
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(reqid.Header, id)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, id, capturedID)
}

func TestErrorLocations(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt)

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res specResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Errors, 1)
	require.NotEmpty(t, res.Errors[0].Locations)
	require.Nil(t, res.Data)
}

func TestGraphiQL(t *testing.T) {
	h := newTestHandler(t, executor.NewMockRuntime(nil))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "GraphiQL")
}
