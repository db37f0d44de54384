package domain

import (
	"errors"
	"testing"
)

func TestNewQuery_Defaults(t *testing.T) {
	q, err := NewQuery("What coffee has floral notes?", nil, 0, 10, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.TopK != 10 {
		t.Errorf("expected default top_k 10, got %d", q.TopK)
	}
}

func TestNewQuery_ExplicitTopK(t *testing.T) {
	q, err := NewQuery("ok?", nil, 25, 10, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.TopK != 25 {
		t.Errorf("expected top_k 25, got %d", q.TopK)
	}
}

func TestNewQuery_EmptyQuestion(t *testing.T) {
	for _, question := range []string{"", "   ", "\n\t"} {
		if _, err := NewQuery(question, nil, 0, 10, 50); !errors.Is(err, ErrValidation) {
			t.Errorf("question %q: expected ErrValidation, got %v", question, err)
		}
	}
}

func TestNewQuery_TopKAboveMax(t *testing.T) {
	_, err := NewQuery("ok?", nil, 51, 10, 50)

	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestNewQuery_InvalidFilters(t *testing.T) {
	_, err := NewQuery("ok?", Metadata{"bogus": "x"}, 0, 10, 50)

	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
