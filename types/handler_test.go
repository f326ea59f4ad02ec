package types

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	reqid "github.com/hanpama/graphdef/internal/reqid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func newGreetingSchema(t *testing.T) *Schema {
	t.Helper()
	query := MustNewObjectType(ObjectTypeConfig{
		Name: "Query",
		Fields: Attrs{
			{Name: "hello", Value: NewField(String,
				WithArgs(Attrs{{Name: "name", Value: Of(String, WithDefault("world"))}}),
				WithResolver(func(ctx context.Context, source any, args Args, info ResolveInfo) (any, error) {
					return "hello " + args.Get("name").(string), nil
				}),
			)},
			{Name: "broken", Value: NewField(String, WithResolver(
				func(ctx context.Context, source any, args Args, info ResolveInfo) (any, error) {
					return nil, errors.New("boom")
				},
			))},
		},
	})
	return MustNewSchema(query)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandlerPost(t *testing.T) {
	h := newGreetingSchema(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(
		`{"query":"query Greet($n: String) { hello(name: $n) }","operationName":"Greet","variables":{"n":"Leia"}}`,
	))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(reqid.Header))
	require.Equal(t, map[string]any{
		"data": map[string]any{"hello": "hello Leia"},
	}, decodeBody(t, w))
}

func TestHandlerGet(t *testing.T) {
	h := newGreetingSchema(t).Handler()

	q := url.Values{"query": {"{ hello }"}}
	req := httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]any{
		"data": map[string]any{"hello": "hello world"},
	}, decodeBody(t, w))
}

func TestHandlerFieldError(t *testing.T) {
	h := newGreetingSchema(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(`{"query":"{ hello broken }"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, map[string]any{"hello": "hello world", "broken": nil}, body["data"])
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	require.Equal(t, "boom", first["message"])
	require.Equal(t, []any{"broken"}, first["path"])
}

func TestHandlerValidationError(t *testing.T) {
	h := newGreetingSchema(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(`{"query":"{ nope }"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	body := decodeBody(t, w)
	require.Nil(t, body["data"])
	require.NotEmpty(t, body["errors"])
}

func TestHandlerBatch(t *testing.T) {
	h := newGreetingSchema(t).Handler(WithPretty())

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(
		`[{"query":"{ hello }"},{"query":"{ hello(name: \"Han\") }"}]`,
	))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]any
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, []map[string]any{
		{"data": map[string]any{"hello": "hello world"}},
		{"data": map[string]any{"hello": "hello Han"}},
	}, body)
}

func TestHandlerRejectsUnsupportedMethod(t *testing.T) {
	h := newGreetingSchema(t).Handler()

	req := httptest.NewRequest(http.MethodPut, "/graphql", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
