package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/with-stats" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Yirgacheffe", "description": "Floral single origin",
			 "price": 120, "category": "beans", "origin": "Ethiopia", "averageRating": 4.6},
			{"id": 2, "name": "Moka Pot", "description": "Stovetop brewer", "price": 250, "category": "equipment"}
		]`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())

	products, err := client.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Yirgacheffe" || products[0].AverageRating != 4.6 {
		t.Errorf("unexpected first product: %+v", products[0])
	}
}

func TestFetchProducts_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())

	if _, err := client.FetchProducts(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestFetchReviews_FailureIsEmptyNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())

	reviews := client.FetchReviews(context.Background())
	if len(reviews) != 0 {
		t.Fatalf("expected no reviews, got %d", len(reviews))
	}
}

func TestFetchReviews_VisibilityDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 10, "productId": 1, "rating": 5, "comment": "Great"},
			{"id": 11, "productId": 1, "rating": 1, "comment": "Bad", "isVisible": false}
		]`))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, zap.NewNop())

	reviews := client.FetchReviews(context.Background())
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if !reviews[0].IsVisible() {
		t.Error("review without isVisible must default to visible")
	}
	if reviews[1].IsVisible() {
		t.Error("review with isVisible=false must be hidden")
	}
}
