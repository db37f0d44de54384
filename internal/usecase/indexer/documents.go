package indexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// BuildDocuments derives retrievable documents from raw records: one per
// product, one per visible review with a non-empty comment. The
// derivation is deterministic so re-indexing unchanged records produces
// byte-identical documents.
func BuildDocuments(products []domain.Product, reviews []domain.Review) []domain.Document {
	docs := make([]domain.Document, 0, len(products)+len(reviews))

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
		docs = append(docs, productDocument(p))
	}

	for _, r := range reviews {
		if !r.IsVisible() || strings.TrimSpace(r.Comment) == "" {
			continue
		}
		docs = append(docs, reviewDocument(r, names[r.ProductID]))
	}

	return docs
}

func productDocument(p domain.Product) domain.Document {
	lines := []string{
		"Product: " + orNA(p.Name),
		"Price: " + formatNumber(p.Price) + " dirhams",
		"Description: " + orNA(p.Description),
	}
	if p.Brand != "" {
		lines = append(lines, "Brand: "+p.Brand)
	}
	if p.Origin != "" {
		lines = append(lines, "Origin: "+p.Origin)
	}
	if p.RoastLevel != "" {
		lines = append(lines, "Roast level: "+p.RoastLevel)
	}
	if p.TastingNotes != "" {
		lines = append(lines, "Tasting notes: "+p.TastingNotes)
	}
	if p.Quantity > 0 {
		lines = append(lines, fmt.Sprintf("Stock: %d units", p.Quantity))
	}
	if p.AverageRating > 0 {
		lines = append(lines, "Average rating: "+formatNumber(p.AverageRating)+"/5")
	}

	meta := domain.Metadata{
		"type":  "product",
		"name":  p.Name,
		"price": p.Price,
	}
	if p.Category != "" {
		meta["category"] = p.Category
	}
	if p.Brand != "" {
		meta["brand"] = p.Brand
	}
	if p.Origin != "" {
		meta["origin"] = p.Origin
	}
	if p.AverageRating > 0 {
		meta["averageRating"] = p.AverageRating
	}

	return domain.Document{
		ID:       fmt.Sprintf("product:%d", p.ID),
		Text:     strings.Join(lines, "\n"),
		Metadata: meta,
	}
}

func reviewDocument(r domain.Review, productName string) domain.Document {
	if productName == "" {
		productName = "a product"
	}
	customer := r.CustomerName
	if customer == "" {
		customer = "Anonymous"
	}

	text := fmt.Sprintf("Review of %s: rating %d/5 - %s - Customer: %s",
		productName, r.Rating, r.Comment, customer)
	if r.Verified {
		text += " (verified purchase)"
	}

	return domain.Document{
		ID:   fmt.Sprintf("review:%d", r.ID),
		Text: text,
		Metadata: domain.Metadata{
			"type":         "review",
			"productId":    float64(r.ProductID),
			"productName":  productName,
			"customerName": customer,
			"rating":       float64(r.Rating),
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatNumber renders without a forced decimal point (120, 4.6).
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
