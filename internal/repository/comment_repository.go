package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/property-rental/internal/model"
)

// CommentRepo provides persistence for reservation comment threads and
// owns the property rating recompute.  Every write (create, update,
// delete) runs in a transaction that locks the property row first, so two
// concurrent comment writes cannot both compute a stale mean and
// overwrite each other's rating.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo returns a new CommentRepo bound to the given database.
func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

const commentCols = `id, user_id, reservation_id, property_id, content, parent_comment_id, rating, created_at, updated_at`

func scanComment(row interface{ Scan(...interface{}) error }, c *model.Comment) error {
	var parent sql.NullInt64
	var rating sql.NullInt64
	if err := row.Scan(&c.ID, &c.UserID, &c.ReservationID, &c.PropertyID,
		&c.Content, &parent, &rating, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	if parent.Valid {
		p := uint64(parent.Int64)
		c.ParentID = &p
	}
	if rating.Valid {
		r := int(rating.Int64)
		c.Rating = &r
	}
	return nil
}

// Create inserts a comment after validating the thread shape inside the
// transaction: a parented comment's parent must exist and belong to the
// same reservation (ErrThreadMismatch), and an unparented comment may
// only be the reservation's first root (ErrDuplicateRoot).  After the
// insert the property's aggregate rating is recomputed in the same
// transaction.  The generated id and timestamps are populated on c.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
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
	if err := lockPropertyTx(ctx, tx, c.PropertyID); err != nil {
		return err
	}
	if c.ParentID != nil {
		var parentReservation uint64
		err := tx.QueryRowContext(ctx,
			`SELECT reservation_id FROM comments WHERE id = ? FOR UPDATE`,
			*c.ParentID).Scan(&parentReservation)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrThreadMismatch
		}
		if err != nil {
			return err
		}
		if parentReservation != c.ReservationID {
			return ErrThreadMismatch
		}
	} else {
		// The property row lock above serializes comment writes for the
		// property, so a plain existence check cannot race another root
		// insert.
		var rootExists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM comments WHERE reservation_id = ? AND parent_comment_id IS NULL)`,
			c.ReservationID).Scan(&rootExists)
		if err != nil {
			return err
		}
		if rootExists {
			return ErrDuplicateRoot
		}
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO comments (user_id, reservation_id, property_id, content, parent_comment_id, rating) VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.ReservationID, c.PropertyID, c.Content, nullableID(c.ParentID), nullableInt(c.Rating))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	if err := recomputeRatingTx(ctx, tx, c.PropertyID); err != nil {
		return err
	}
	if err := scanComment(tx.QueryRowContext(ctx,
		`SELECT `+commentCols+` FROM comments WHERE id = ?`, c.ID), c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update persists new content/rating for a comment and recomputes the
// property rating in the same transaction.  Identity, thread position and
// ownership columns are immutable.
func (r *CommentRepo) Update(ctx context.Context, c *model.Comment) error {
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
	if err := lockPropertyTx(ctx, tx, c.PropertyID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE comments SET content = ?, rating = ? WHERE id = ?`,
		c.Content, nullableInt(c.Rating), c.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		// Distinguish a missing row from a no-op update.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM comments WHERE id = ?)`, c.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrCommentNotFound
		}
	}
	if err := recomputeRatingTx(ctx, tx, c.PropertyID); err != nil {
		return err
	}
	if err := scanComment(tx.QueryRowContext(ctx,
		`SELECT `+commentCols+` FROM comments WHERE id = ?`, c.ID), c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a comment and its descendants (schema-level cascade on
// parent_comment_id) and recomputes the property rating.
func (r *CommentRepo) Delete(ctx context.Context, id, propertyID uint64) error {
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
	if err := lockPropertyTx(ctx, tx, propertyID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	if err := recomputeRatingTx(ctx, tx, propertyID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a single comment.  Returns ErrCommentNotFound when the
// id is absent.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := scanComment(r.db.QueryRowContext(ctx,
		`SELECT `+commentCols+` FROM comments WHERE id = ?`, id), &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByReservation returns a reservation's thread in creation order.
func (r *CommentRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Comment, error) {
	return r.list(ctx,
		`SELECT `+commentCols+` FROM comments WHERE reservation_id = ? ORDER BY created_at ASC, id ASC`,
		reservationID)
}

// ListByProperty returns every comment tied to a property across all of
// its reservations, newest thread entries last.
func (r *CommentRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Comment, error) {
	return r.list(ctx,
		`SELECT `+commentCols+` FROM comments WHERE property_id = ? ORDER BY created_at ASC, id ASC`,
		propertyID)
}

func (r *CommentRepo) list(ctx context.Context, query string, arg uint64) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// recomputeRatingTx rewrites properties.rating as the mean of all
// non-null comment ratings for the property, rounded to one decimal, with
// an explicit 0 when no rated comments exist.  Must agree with
// model.MeanRating.  Callers must hold the property row lock.
func recomputeRatingTx(ctx context.Context, tx *sql.Tx, propertyID uint64) error {
	const q = `UPDATE properties
			   SET rating = (SELECT ROUND(COALESCE(AVG(rating), 0), 1)
							 FROM comments
							 WHERE property_id = ? AND rating IS NOT NULL)
			   WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, propertyID, propertyID)
	return err
}

func nullableID(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
