package domain

// Page carries pagination and sorting for list queries. SortBy is
// checked against a per-listing whitelist so callers cannot sort by
// arbitrary columns.
type Page struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var (
	OrderSortFields     = map[string]bool{"created_at": true, "total_amount": true, "status": true}
	OrderItemSortFields = map[string]bool{"created_at": true, "price": true, "quantity": true}
	MedicineSortFields  = map[string]bool{"created_at": true, "price": true, "name": true}
)

// Normalize clamps limits and falls back to created_at desc for
// unknown sort fields or directions.
func (p Page) Normalize(allowed map[string]bool) Page {
	if p.Limit <= 0 || p.Limit > maxPageLimit {
		p.Limit = defaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if !allowed[p.SortBy] {
		p.SortBy = "created_at"
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = "desc"
	}
	return p
}
