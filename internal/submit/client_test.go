package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/idilsaglam/recipes/internal/model"
)

func pancakes() model.Recipe {
	return model.Recipe{
		Name:         "Pancakes",
		Source:       "Grandma",
		Category:     model.CategoryBreakfast,
		Ingredients:  "flour, eggs",
		Instructions: "mix and fry",
	}
}

func TestSubmitPostsJSON(t *testing.T) {
	var (
		gotBody   map[string]string
		gotHeader http.Header
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"42","createdAt":"2026-10-18T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Submit(context.Background(), pancakes())
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Status)
	require.NotEmpty(t, resp.RequestID)

	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	require.Equal(t, resp.RequestID, gotHeader.Get("X-Request-ID"))

	want := map[string]string{
		"name":         "Pancakes",
		"source":       "Grandma",
		"category":     "breakfast",
		"ingredients":  "flour, eggs",
		"instructions": "mix and fry",
	}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "42", body["id"])
}

func TestSubmitNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Submit(context.Background(), pancakes())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnprocessableEntity, se.Status)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	require.Equal(t, "nope\n", resp.Body)
}

func TestSubmitNetworkFailureIsTraced(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	_, err := New(url, WithTracer(tp.Tracer("test"))).Submit(context.Background(), pancakes())
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "recipes.submit", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events(), "error is recorded as a span event")
}

type stubSubmitter struct {
	mu    sync.Mutex
	got   []model.Recipe
	err   error
	delay time.Duration
}

func (s *stubSubmitter) Submit(ctx context.Context, r model.Recipe) (*Response, error) {
	time.Sleep(s.delay)
	s.mu.Lock()
	s.got = append(s.got, r)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Status: http.StatusCreated}, nil
}

func TestDispatchIsDetached(t *testing.T) {
	stub := &stubSubmitter{err: errors.New("connection refused"), delay: 20 * time.Millisecond}
	var (
		mu   sync.Mutex
		errs []error
	)
	d := NewDispatcher(stub, WithOutcome(func(_ model.Recipe, _ *Response, err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}))

	start := time.Now()
	d.Dispatch(pancakes())
	require.Less(t, time.Since(start), 20*time.Millisecond, "dispatch must not wait for the request")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 1)
	require.EqualError(t, errs[0], "connection refused")
}

func TestWaitHonoursContext(t *testing.T) {
	d := NewDispatcher(&stubSubmitter{delay: time.Second})
	d.Dispatch(pancakes())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
}
