package domain

// Product is a raw catalog record from the shop backend
// (/api/products/with-stats). Optional fields are empty when absent.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand"`
	Origin        string  `json:"origin"`
	RoastLevel    string  `json:"roastLevel"`
	TastingNotes  string  `json:"tastingNotes"`
	Quantity      int     `json:"quantity"`
	AverageRating float64 `json:"averageRating"`
}

// Review is a raw customer review record from the shop backend
// (/api/reviews).
type Review struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"productId"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CustomerName string `json:"customerName"`
	Visible      *bool  `json:"isVisible"`
	Verified     bool   `json:"isVerified"`
}

// IsVisible reports whether the review should be indexed. Records without
// the flag are treated as visible, matching the backend's default.
func (r Review) IsVisible() bool {
	return r.Visible == nil || *r.Visible
}
