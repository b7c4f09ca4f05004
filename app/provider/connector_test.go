package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		RetryCount:  2,
		RetryDelay:  time.Millisecond,
		HTTPTimeout: time.Second,
	}
}

func TestSendPostsRegistration(t *testing.T) {
	var got RegisterPayment
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL))
	err := connector.Send(context.Background(), &RegisterPayment{
		PaymentID:   "p-1",
		Amount:      2500,
		PaymentType: "credit-card",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/register" {
		t.Fatalf("unexpected path: %s", path)
	}
	if got.PaymentID != "p-1" || got.Amount != 2500 || got.PaymentType != "credit-card" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL))
	if err := connector.Send(context.Background(), &RegisterPayment{PaymentID: "p-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestSendExhaustedRetriesReturnsSentinel(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	connector := NewConnector(testConfig(srv.URL))
	err := connector.Send(context.Background(), &RegisterPayment{PaymentID: "p-1"})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestSendHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RetryDelay = time.Minute
	connector := NewConnector(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := connector.Send(ctx, &RegisterPayment{PaymentID: "p-1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
