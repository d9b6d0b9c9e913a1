package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pharmamart/backend/internal/core/domain"
)

var medicineColumns = []string{
	"id", "name", "slug", "description", "price", "stock",
	"manufacturer", "category_id", "image_url", "seller_id", "is_active", "created_at",
}

func scanMedicine(row pgx.Row) (*domain.Medicine, error) {
	medicine := domain.Medicine{}
	err := row.Scan(
		&medicine.ID,
		&medicine.Name,
		&medicine.Slug,
		&medicine.Description,
		&medicine.Price,
		&medicine.Stock,
		&medicine.Manufacturer,
		&medicine.CategoryID,
		&medicine.ImageURL,
		&medicine.SellerID,
		&medicine.IsActive,
		&medicine.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *Repository) CreateMedicine(ctx context.Context, medicine *domain.Medicine) (*domain.Medicine, error) {
	statement := r.db.QueryBuilder.Insert("medicines").
		Columns("id", "name", "slug", "description", "price", "stock",
			"manufacturer", "category_id", "image_url", "seller_id", "is_active").
		Values(medicine.ID, medicine.Name, medicine.Slug, medicine.Description,
			medicine.Price, medicine.Stock, medicine.Manufacturer,
			medicine.CategoryID, medicine.ImageURL, medicine.SellerID, medicine.IsActive)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return medicine, nil
}

func (r *Repository) ReadMedicine(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	statement := r.db.QueryBuilder.
		Select(medicineColumns...).
		From("medicines").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	medicine, err := scanMedicine(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return medicine, nil
}

func (r *Repository) ListMedicines(ctx context.Context, filter domain.MedicineFilter,
	page domain.Page) ([]*domain.Medicine, error) {
	statement := r.db.QueryBuilder.
		Select(medicineColumns...).
		From("medicines").
		Where(sq.Eq{"is_active": true})

	if filter.CategoryID != nil {
		statement = statement.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		statement = statement.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"manufacturer": pattern},
		})
	}
	if filter.MinPrice != nil {
		statement = statement.Where(sq.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		statement = statement.Where(sq.LtOrEq{"price": *filter.MaxPrice})
	}
	if filter.Manufacturer != "" {
		statement = statement.Where(sq.ILike{"manufacturer": "%" + filter.Manufacturer + "%"})
	}

	statement = statement.
		OrderBy(fmt.Sprintf("%s %s", page.SortBy, strings.ToUpper(page.SortOrder))).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	return r.listMedicines(ctx, statement)
}

func (r *Repository) ListMedicinesBySeller(ctx context.Context, sellerID uuid.UUID,
	page domain.Page) ([]*domain.Medicine, error) {
	statement := r.db.QueryBuilder.
		Select(medicineColumns...).
		From("medicines").
		Where(sq.Eq{"seller_id": sellerID}).
		OrderBy(fmt.Sprintf("%s %s", page.SortBy, strings.ToUpper(page.SortOrder))).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	return r.listMedicines(ctx, statement)
}

func (r *Repository) listMedicines(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Medicine, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Medicine, 0)
	for rows.Next() {
		medicine, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, medicine)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) UpdateMedicine(ctx context.Context, id uuid.UUID,
	update domain.MedicineUpdate) (*domain.Medicine, error) {
	statement := r.db.QueryBuilder.Update("medicines").
		Where(sq.Eq{"id": id})

	if update.Name != nil {
		statement = statement.Set("name", *update.Name)
	}
	if update.Slug != nil {
		statement = statement.Set("slug", *update.Slug)
	}
	if update.Description != nil {
		statement = statement.Set("description", *update.Description)
	}
	if update.Price != nil {
		statement = statement.Set("price", *update.Price)
	}
	if update.Manufacturer != nil {
		statement = statement.Set("manufacturer", *update.Manufacturer)
	}
	if update.CategoryID != nil {
		statement = statement.Set("category_id", *update.CategoryID)
	}
	if update.ImageURL != nil {
		statement = statement.Set("image_url", *update.ImageURL)
	}
	if update.IsActive != nil {
		statement = statement.Set("is_active", *update.IsActive)
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDataNotFound
	}

	return r.ReadMedicine(ctx, id)
}

func (r *Repository) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	statement := r.db.QueryBuilder.Delete("medicines").
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

func (r *Repository) ResolveActiveMedicines(ctx context.Context, ids []uuid.UUID) ([]*domain.Medicine, error) {
	statement := r.db.QueryBuilder.
		Select(medicineColumns...).
		From("medicines").
		Where(sq.Eq{"id": ids}).
		Where(sq.Eq{"is_active": true})

	return r.listMedicines(ctx, statement)
}

// ReserveStock is the ledger's compare-and-decrement: one conditional
// UPDATE, no read-modify-write gap. The journal row rides in the same
// transaction so a crash can never leave an unaccounted decrement.
func (r *Repository) ReserveStock(ctx context.Context, reservationID uuid.UUID,
	medicineID uuid.UUID, quantity int32) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.Update("medicines").
			Set("stock", sq.Expr("stock - ?", quantity)).
			Where(sq.Eq{"id": medicineID}).
			Where(sq.GtOrEq{"stock": quantity})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientStock
		}

		// A cart may carry several lines of the same medicine; they
		// accumulate under one journal row.
		journal := r.db.QueryBuilder.Insert("stock_reservations").
			Columns("reservation_id", "medicine_id", "quantity").
			Values(reservationID, medicineID, quantity).
			Suffix("ON CONFLICT (reservation_id, medicine_id) DO UPDATE SET quantity = stock_reservations.quantity + EXCLUDED.quantity")

		sql, args, err = journal.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
}

func (r *Repository) ReleaseStock(ctx context.Context, reservationID uuid.UUID,
	medicineID uuid.UUID, quantity int32) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := incrementStock(ctx, tx, r, medicineID, quantity); err != nil {
			return err
		}

		statement := r.db.QueryBuilder.Delete("stock_reservations").
			Where(sq.Eq{"reservation_id": reservationID}).
			Where(sq.Eq{"medicine_id": medicineID})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
}

func (r *Repository) ReleaseExpiredReservations(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	statement := r.db.QueryBuilder.
		Select("reservation_id", "medicine_id", "quantity").
		From("stock_reservations").
		Where(sq.Lt{"created_at": cutoff})

	sql, args, err := statement.ToSql()
	if err != nil {
		return 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type stale struct {
		reservationID uuid.UUID
		medicineID    uuid.UUID
		quantity      int32
	}
	pending := make([]stale, 0)
	for rows.Next() {
		var s stale
		if err := rows.Scan(&s.reservationID, &s.medicineID, &s.quantity); err != nil {
			return 0, err
		}
		pending = append(pending, s)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	released := 0
	for _, s := range pending {
		if err := r.ReleaseStock(ctx, s.reservationID, s.medicineID, s.quantity); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}

func incrementStock(ctx context.Context, tx pgx.Tx, r *Repository,
	medicineID uuid.UUID, quantity int32) error {
	statement := r.db.QueryBuilder.Update("medicines").
		Set("stock", sq.Expr("stock + ?", quantity)).
		Where(sq.Eq{"id": medicineID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}
