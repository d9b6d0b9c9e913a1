package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pharmamart/backend/internal/core/domain"
)

func (r *Repository) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	statement := r.db.QueryBuilder.Insert("reviews").
		Columns("id", "customer_id", "medicine_id", "rating", "comment", "created_at").
		Values(review.ID, review.CustomerID, review.MedicineID, review.Rating,
			review.Comment, review.CreatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *Repository) ReadReview(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	statement := r.db.QueryBuilder.
		Select("id", "customer_id", "medicine_id", "rating", "comment", "created_at").
		From("reviews").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	review := domain.Review{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&review.ID,
		&review.CustomerID,
		&review.MedicineID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &review, nil
}

func (r *Repository) ListReviewsByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*domain.Review, error) {
	return r.listReviews(ctx, sq.Eq{"medicine_id": medicineID})
}

func (r *Repository) ListReviewsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Review, error) {
	return r.listReviews(ctx, sq.Eq{"customer_id": customerID})
}

func (r *Repository) listReviews(ctx context.Context, pred sq.Eq) ([]*domain.Review, error) {
	statement := r.db.QueryBuilder.
		Select("id", "customer_id", "medicine_id", "rating", "comment", "created_at").
		From("reviews").
		Where(pred).
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Review, 0)
	for rows.Next() {
		review := domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.CustomerID,
			&review.MedicineID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) UpdateReview(ctx context.Context, id uuid.UUID,
	update domain.ReviewUpdate) (*domain.Review, error) {
	statement := r.db.QueryBuilder.Update("reviews").
		Where(sq.Eq{"id": id})

	if update.Rating != nil {
		statement = statement.Set("rating", *update.Rating)
	}
	if update.Comment != nil {
		statement = statement.Set("comment", *update.Comment)
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDataNotFound
	}

	return r.ReadReview(ctx, id)
}

func (r *Repository) DeleteReview(ctx context.Context, id uuid.UUID) error {
	statement := r.db.QueryBuilder.Delete("reviews").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

// HasDeliveredOrderItem is the review gate: one row is enough.
func (r *Repository) HasDeliveredOrderItem(ctx context.Context, customerID, medicineID uuid.UUID) (bool, error) {
	statement := r.db.QueryBuilder.
		Select("1").
		From("order_items oi").
		Join("orders o ON o.id = oi.order_id").
		Where(sq.Eq{"oi.medicine_id": medicineID}).
		Where(sq.Eq{"o.customer_id": customerID}).
		Where(sq.Eq{"o.status": domain.OrderStatusDelivered}).
		Limit(1)

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
