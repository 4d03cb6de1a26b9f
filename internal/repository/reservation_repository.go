package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/property-rental/internal/model"
)

// ReservationRepo provides persistence for reservations.  Create and
// Update are the write half of the conflict engine: each runs in its own
// transaction that first locks the target property row, so two concurrent
// writes against the same property serialize and at most one of two
// overlapping requests can win.  All timestamp fields are stored in UTC;
// start/end are DATE columns.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to start their
// own transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, tenant_id, property_id, status, start_date, end_date, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }, res *model.Reservation) error {
	return row.Scan(&res.ID, &res.TenantID, &res.PropertyID, &res.Status,
		&res.StartDate, &res.EndDate, &res.CreatedAt, &res.UpdatedAt)
}

// lockPropertyTx takes a row lock on the property so that concurrent
// conflict checks for the same property cannot interleave with this
// transaction's write.  Returns ErrPropertyNotFound when the property
// does not exist.
func lockPropertyTx(ctx context.Context, tx *sql.Tx, propertyID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM properties WHERE id = ? FOR UPDATE`, propertyID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPropertyNotFound
	}
	return err
}

// hasConflictTx answers whether [start,end] on the property collides with
// any Pending or Approved reservation other than excludeID.  Two ranges
// collide when they intersect on at least one day (touching counts).
// Read-only; pass excludeID = 0 when creating.
func hasConflictTx(ctx context.Context, tx *sql.Tx, propertyID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS(
				 SELECT 1 FROM reservations
				 WHERE property_id = ?
				   AND status IN (?, ?)
				   AND NOT (end_date < ? OR start_date > ?)
				   AND id <> ?)`
	var found bool
	err := tx.QueryRowContext(ctx, q, propertyID,
		model.StatusPending, model.StatusApproved,
		start.Format(model.DateLayout), end.Format(model.DateLayout),
		excludeID).Scan(&found)
	return found, err
}

// HasConflict runs the overlap check outside of any write, for callers
// that only need the boolean (availability previews).  It sees committed
// state only and takes no locks.
func (r *ReservationRepo) HasConflict(ctx context.Context, propertyID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()
	return hasConflictTx(ctx, tx, propertyID, start, end, excludeID)
}

// Create inserts a new reservation after verifying, inside a single
// transaction, that the property exists and that the date range does not
// overlap any active reservation.  On success the generated id and the
// database-assigned timestamps are populated on res.  Returns
// ErrPropertyNotFound or ErrReservationConflict on rule violations.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockPropertyTx(ctx, tx, res.PropertyID); err != nil {
		return err
	}
	conflict, err := hasConflictTx(ctx, tx, res.PropertyID, res.StartDate, res.EndDate, 0)
	if err != nil {
		return err
	}
	if conflict {
		return ErrReservationConflict
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (tenant_id, property_id, status, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		res.TenantID, res.PropertyID, res.Status,
		res.StartDate.Format(model.DateLayout), res.EndDate.Format(model.DateLayout))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	if err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID), res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update persists new status/dates/property for an existing reservation,
// re-running the conflict check against the updated range with the
// reservation's own id excluded.  The tenant column is never touched.
// Returns ErrReservationNotFound, ErrPropertyNotFound or
// ErrReservationConflict.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Lock the row being updated so concurrent updates serialize too.
	var current model.Reservation
	err = scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ? FOR UPDATE`, res.ID), &current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	if err := lockPropertyTx(ctx, tx, res.PropertyID); err != nil {
		return err
	}
	conflict, err := hasConflictTx(ctx, tx, res.PropertyID, res.StartDate, res.EndDate, res.ID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrReservationConflict
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET property_id = ?, status = ?, start_date = ?, end_date = ? WHERE id = ?`,
		res.PropertyID, res.Status,
		res.StartDate.Format(model.DateLayout), res.EndDate.Format(model.DateLayout),
		res.ID); err != nil {
		return err
	}
	res.TenantID = current.TenantID
	if err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID), res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a reservation.  Comments referencing it cascade at the
// schema level.  Returns ErrReservationNotFound when the id is absent.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// GetByID fetches a single reservation.  Returns ErrReservationNotFound
// when the id is absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id), &res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByProperty returns all reservations for a property ordered by start
// date.  An empty slice is a valid result.
func (r *ReservationRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE property_id = ? ORDER BY start_date ASC, id ASC`,
		propertyID)
}

// ListByTenant returns all reservations created by a tenant, newest
// first.  An empty slice is a valid result.
func (r *ReservationRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.Reservation, error) {
	return r.list(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE tenant_id = ? ORDER BY created_at DESC, id DESC`,
		tenantID)
}

func (r *ReservationRepo) list(ctx context.Context, query string, arg uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
