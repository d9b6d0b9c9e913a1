package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pharmamart/backend/internal/core/domain"
)

func (r *Repository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	statement := r.db.QueryBuilder.Insert("categories").
		Columns("id", "name", "slug", "description").
		Values(category.ID, category.Name, category.Slug, category.Description)

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
	return category, nil
}

func (r *Repository) ReadCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "slug", "description").
		From("categories").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	category := domain.Category{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "slug", "description").
		From("categories").
		OrderBy("name ASC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Category, 0)
	for rows.Next() {
		category := domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	statement := r.db.QueryBuilder.Update("categories").
		Set("name", category.Name).
		Set("slug", category.Slug).
		Set("description", category.Description).
		Where(sq.Eq{"id": category.ID})

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
	return category, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	statement := r.db.QueryBuilder.Delete("categories").
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
