package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware_NilClientPassesThrough(t *testing.T) {
	store := New(nil, "test", time.Minute)

	calls := 0
	handler := store.Middleware(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"success":true}`))
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/medicines", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}

	// Without Redis every request reaches the handler
	assert.Equal(t, 2, calls)
}

func TestMiddleware_NilStorePassesThrough(t *testing.T) {
	var store *Store

	called := false
	handler := store.Middleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/medicines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestInvalidate_NilStoreIsNoOp(t *testing.T) {
	var store *Store
	store.Invalidate(context.Background())

	store = New(nil, "test", 0)
	store.Invalidate(context.Background())
}

func TestNew_DefaultTTL(t *testing.T) {
	store := New(nil, "test", 0)
	assert.Equal(t, 5*time.Minute, store.ttl)
}
