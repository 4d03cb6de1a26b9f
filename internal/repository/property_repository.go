package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/property-rental/internal/model"
)

// PropertyRepo provides persistence for property listings and the two
// directory lookups the reservation engine consumes: Exists and OwnerOf.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo returns a new PropertyRepo bound to the given database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyCols = `id, owner_id, title, address, city, province, postal_code, price, property_type, num_bedrooms, sqft, amenities, rating, created_at, updated_at`

func scanProperty(row interface{ Scan(...interface{}) error }, p *model.Property) error {
	return row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Address, &p.City, &p.Province,
		&p.PostalCode, &p.Price, &p.PropertyType, &p.NumBedrooms, &p.Sqft,
		&p.Amenities, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
}

// Exists reports whether a property id resolves to a row.
func (r *PropertyRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM properties WHERE id = ?)`, id).Scan(&found)
	return found, err
}

// OwnerOf returns the owning user of a property.  Returns
// ErrPropertyNotFound when the property does not exist.
func (r *PropertyRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM properties WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrPropertyNotFound
	}
	return owner, err
}

// GetByID fetches a single property including its current aggregate
// rating.  Returns ErrPropertyNotFound when the id is absent.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	var p model.Property
	err := scanProperty(r.db.QueryRowContext(ctx,
		`SELECT `+propertyCols+` FROM properties WHERE id = ?`, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a listing.  Rating starts at its schema default of 0 and
// is only ever rewritten by the comment write path.  The generated id and
// timestamps are populated on p.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (owner_id, title, address, city, province, postal_code, price, property_type, num_bedrooms, sqft, amenities)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.OwnerID, p.Title, p.Address, p.City, p.Province, p.PostalCode,
		p.Price, p.PropertyType, p.NumBedrooms, p.Sqft, p.Amenities)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return scanProperty(r.db.QueryRowContext(ctx,
		`SELECT `+propertyCols+` FROM properties WHERE id = ?`, p.ID), p)
}

// Update rewrites a listing's descriptive fields.  Owner and rating are
// immutable here: ownership never transfers and rating belongs to the
// aggregator.  Returns ErrPropertyNotFound when the id is absent.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET title = ?, address = ?, city = ?, province = ?, postal_code = ?, price = ?, property_type = ?, num_bedrooms = ?, sqft = ?, amenities = ?
		 WHERE id = ?`,
		p.Title, p.Address, p.City, p.Province, p.PostalCode, p.Price,
		p.PropertyType, p.NumBedrooms, p.Sqft, p.Amenities, p.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM properties WHERE id = ?)`, p.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrPropertyNotFound
		}
	}
	return scanProperty(r.db.QueryRowContext(ctx,
		`SELECT `+propertyCols+` FROM properties WHERE id = ?`, p.ID), p)
}

// Delete removes a listing; reservations and comments cascade at the
// schema level.  Returns ErrPropertyNotFound when the id is absent.
func (r *PropertyRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// ListByOwner returns all listings belonging to a user, newest first.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+propertyCols+` FROM properties WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Property, 0)
	for rows.Next() {
		var p model.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
