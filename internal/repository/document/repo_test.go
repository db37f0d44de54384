package document

import (
	"strings"
	"testing"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

func TestBuildSearchSQL_NoFilters(t *testing.T) {
	sql, args, err := buildSearchSQL("products_reviews", []float32{0.1, 0.2}, nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args (collection, vector, limit), got %d", len(args))
	}
	if args[0] != "products_reviews" {
		t.Errorf("expected collection arg, got %v", args[0])
	}
	if args[2] != 10 {
		t.Errorf("expected limit arg 10, got %v", args[2])
	}
	if strings.Contains(sql, "@>") {
		t.Error("filterless query must not contain a containment clause")
	}
	if !strings.Contains(sql, "ORDER BY embedding <=> $2, id") {
		t.Error("query must order by distance with id as tie-break")
	}
	if !strings.Contains(sql, "LIMIT $3") {
		t.Errorf("expected LIMIT $3, sql: %s", sql)
	}
}

func TestBuildSearchSQL_WithFilters(t *testing.T) {
	filters := domain.Metadata{"category": "coffee", "price": 99.0}
	sql, args, err := buildSearchSQL("products_reviews", []float32{0.1}, filters, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args with filters, got %d", len(args))
	}
	if !strings.Contains(sql, "metadata @> $3::jsonb") {
		t.Errorf("expected containment clause bound to $3, sql: %s", sql)
	}
	if !strings.Contains(sql, "LIMIT $4") {
		t.Errorf("expected LIMIT $4 after filter arg, sql: %s", sql)
	}
	filterJSON, ok := args[2].([]byte)
	if !ok {
		t.Fatalf("expected filter arg to be JSON bytes, got %T", args[2])
	}
	if !strings.Contains(string(filterJSON), `"category":"coffee"`) {
		t.Errorf("filter JSON missing category: %s", filterJSON)
	}
}

func TestBuildSearchSQL_RejectsNonPositiveTopK(t *testing.T) {
	if _, _, err := buildSearchSQL("c", []float32{0.1}, nil, 0); err == nil {
		t.Fatal("expected error for topK=0")
	}
}
