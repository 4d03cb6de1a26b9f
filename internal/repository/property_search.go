package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/property-rental/internal/model"
)

// PropertySearchQuery defines filters & pagination for searching listings.
// CheckIn/CheckOut, when both set, exclude properties that already carry a
// pending or approved reservation overlapping that window.
type PropertySearchQuery struct {
	City         string
	Province     string
	PropertyType string
	PriceMin     int64
	PriceMax     int64
	CheckIn      time.Time
	CheckOut     time.Time
	Sort         string // price_asc, price_desc, or empty for rating
	Page         int
	PageSize     int
}

func (r *PropertyRepo) Search(ctx context.Context, q PropertySearchQuery) ([]model.Property, int64, error) {
	where := []string{}
	args := []any{}

	if q.City != "" {
		where = append(where, "LOWER(p.city) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.City)+"%")
	}
	if q.Province != "" {
		where = append(where, "LOWER(p.province) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Province)+"%")
	}
	if q.PropertyType != "" {
		where = append(where, "LOWER(p.property_type) = ?")
		args = append(args, strings.ToLower(q.PropertyType))
	}
	if q.PriceMin > 0 {
		where = append(where, "p.price >= ?")
		args = append(args, q.PriceMin)
	}
	if q.PriceMax > 0 {
		where = append(where, "p.price <= ?")
		args = append(args, q.PriceMax)
	}
	if !q.CheckIn.IsZero() && !q.CheckOut.IsZero() {
		// Same overlap predicate the reservation writer enforces: a
		// property is unavailable when an active reservation touches any
		// day of the requested window, endpoints included.
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM reservations rv
			WHERE rv.property_id = p.id
			  AND rv.status IN ('Pending', 'Approved')
			  AND NOT (rv.end_date < ? OR rv.start_date > ?))`)
		args = append(args, q.CheckIn.Format(model.DateLayout), q.CheckOut.Format(model.DateLayout))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM properties p WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "p.rating DESC, p.id ASC"
	switch q.Sort {
	case "price_asc":
		order = "p.price ASC, p.id ASC"
	case "price_desc":
		order = "p.price DESC, p.id ASC"
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			p.id, p.owner_id, p.title, p.address, p.city, p.province,
			p.postal_code, p.price, p.property_type, p.num_bedrooms,
			p.sqft, p.amenities, p.rating, p.created_at, p.updated_at
		FROM properties p
		WHERE ` + cond + `
		ORDER BY ` + order + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Property, 0, limit)
	for rows.Next() {
		var p model.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
