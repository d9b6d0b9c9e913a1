package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pharmamart/backend/internal/core/domain"
)

// CreateOrder persists the order, its items and the consumption of the
// reservation journal in one transaction, so no concurrent read ever
// observes a partial order.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order,
	reservationID uuid.UUID) (*domain.Order, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		orderSt := r.db.QueryBuilder.Insert("orders").
			Columns("id", "customer_id", "status", "total_amount", "shipping_address", "created_at").
			Values(order.ID, order.CustomerID, order.Status, order.TotalAmount,
				order.ShippingAddress, order.CreatedAt)

		sql, args, err := orderSt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		itemSt := r.db.QueryBuilder.Insert("order_items").
			Columns("id", "order_id", "medicine_id", "seller_id", "quantity", "price")
		for _, it := range order.Items {
			itemSt = itemSt.Values(it.ID, it.OrderID, it.MedicineID, it.SellerID, it.Quantity, it.Price)
		}

		sql, args, err = itemSt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		consumeSt := r.db.QueryBuilder.Delete("stock_reservations").
			Where(sq.Eq{"reservation_id": reservationID})

		sql, args, err = consumeSt.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select("id", "customer_id", "status", "total_amount", "shipping_address", "created_at").
		From("orders").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order := domain.Order{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.TotalAmount,
		&order.ShippingAddress,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	itemsByOrder, err := r.loadOrderItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[order.ID]

	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select("id", "customer_id", "status", "total_amount", "shipping_address", "created_at").
		From("orders")

	if filter.CustomerID != nil {
		statement = statement.Where(sq.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.SellerID != nil {
		statement = statement.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.seller_id = ?)",
			*filter.SellerID))
	}
	if filter.Status != nil {
		statement = statement.Where(sq.Eq{"status": *filter.Status})
	}

	page := filter.Page
	statement = statement.
		OrderBy(fmt.Sprintf("%s %s", page.SortBy, strings.ToUpper(page.SortOrder))).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		order := domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.Status,
			&order.TotalAmount,
			&order.ShippingAddress,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return list, nil
	}

	itemsByOrder, err := r.loadOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range list {
		order.Items = itemsByOrder[order.ID]
	}

	return list, nil
}

func (r *Repository) ListOrderItemsBySeller(ctx context.Context, sellerID uuid.UUID,
	page domain.Page) ([]*domain.OrderItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "medicine_id", "seller_id", "quantity", "price").
		From("order_items").
		Where(sq.Eq{"seller_id": sellerID}).
		OrderBy(fmt.Sprintf("%s %s", page.SortBy, strings.ToUpper(page.SortOrder))).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MedicineID,
			&item.SellerID,
			&item.Quantity,
			&item.Price,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// UpdateOrderStatus flips the status only while it still equals from.
// Zero affected rows mean the guard failed (or the order is gone) and
// surface as ErrNoUpdatedData for the service to interpret.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID,
	from, to domain.OrderStatus) error {
	statement := r.db.QueryBuilder.Update("orders").
		Set("status", to).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": from})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoUpdatedData
	}
	return nil
}

// CancelOrder pairs the guarded status flip with the stock restore in
// one transaction: either the order ends CANCELLED with every unit back
// on the shelf, or nothing changes.
func (r *Repository) CancelOrder(ctx context.Context, order *domain.Order) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.Update("orders").
			Set("status", domain.OrderStatusCancelled).
			Where(sq.Eq{"id": order.ID}).
			Where(sq.Eq{"status": order.Status})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNoUpdatedData
		}

		for _, it := range order.Items {
			if err := incrementStock(ctx, tx, r, it.MedicineID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) loadOrderItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "medicine_id", "seller_id", "quantity", "price").
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("created_at ASC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itemsByOrder := make(map[uuid.UUID][]domain.OrderItem)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MedicineID,
			&item.SellerID,
			&item.Quantity,
			&item.Price,
		)
		if err != nil {
			return nil, err
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return itemsByOrder, nil
}
