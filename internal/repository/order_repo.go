package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

// CreateOrder returns a non-nil error when the commit itself fails, so a
// caller never sees a "created" order that was not durably written.
func (r *postgresOrderRepository) CreateOrder(order *domain.Order) (_ *domain.Order, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (order_number, status, total_amount, customer_name,
            customer_email, customer_phone, shipping_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, status, created_at, updated_at`

	err = tx.QueryRow(orderQuery,
		order.OrderNumber,
		order.Status,
		order.TotalAmount,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
	).Scan(
		&order.ID,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.Warnf("Order number collision for %s", order.OrderNumber)
			return nil, fmt.Errorf("order number '%s' %w", order.OrderNumber, domain.ErrConflict)
		}
		r.log.Errorf("Failed to insert order %s: %v", order.OrderNumber, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, product_name,
            product_price, quantity, subtotal)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = stmt.QueryRow(
			order.ID,
			item.ProductID,
			item.ProductName,
			item.ProductPrice,
			item.Quantity,
			item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			r.log.Errorf("Failed to insert order item (product_id: %d) for order %d: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	r.log.Infof("Order %s created with %d items (id: %d)", order.OrderNumber, len(order.Items), order.ID)
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByNumber(orderNumber string) (*domain.Order, error) {
	query := `
        SELECT id, order_number, status, total_amount, customer_name,
            customer_email, customer_phone, shipping_address, created_at, updated_at
        FROM orders
        WHERE order_number = $1`
	return r.getOrder(query, orderNumber, orderNumber)
}

func (r *postgresOrderRepository) GetOrderByID(id int) (*domain.Order, error) {
	query := `
        SELECT id, order_number, status, total_amount, customer_name,
            customer_email, customer_phone, shipping_address, created_at, updated_at
        FROM orders
        WHERE id = $1`
	return r.getOrder(query, fmt.Sprintf("%d", id), id)
}

func (r *postgresOrderRepository) getOrder(query, label string, arg interface{}) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.db.QueryRow(query, arg).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.Status,
		&order.TotalAmount,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("Order %s not found", label)
			return nil, fmt.Errorf("order %s %w", label, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get order %s: %v", label, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(orderID int) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal
        FROM order_items
        WHERE order_id = $1
        ORDER BY id`

	rows, err := r.db.Query(itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductPrice, &item.Quantity, &item.Subtotal); err != nil {
			r.log.Errorf("Failed to scan order item row for order ID %d: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresOrderRepository) ListOrders() ([]domain.Order, error) {
	ordersQuery := `
        SELECT id, order_number, status, total_amount, customer_name,
            customer_email, customer_phone, shipping_address, created_at, updated_at
        FROM orders
        ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ordersQuery)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int{}

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.Status,
			&order.TotalAmount,
			&order.CustomerName,
			&order.CustomerEmail,
			&order.CustomerPhone,
			&order.ShippingAddress,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemsQuery := `
        SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal
        FROM order_items
        WHERE order_id = ANY($1::int[])
        ORDER BY order_id, id`

	itemRows, err := r.db.Query(itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[int][]domain.OrderItem)
	for itemRows.Next() {
		var item domain.OrderItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductPrice, &item.Quantity, &item.Subtotal); err != nil {
			r.log.Errorf("Failed to scan order item row during multi-order fetch: %v", err)
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		itemsMap[item.OrderID] = append(itemsMap[item.OrderID], item)
	}
	if err = itemRows.Err(); err != nil {
		r.log.Errorf("Error during multi-order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	r.log.Debugf("Retrieved %d orders", len(orders))
	return orders, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(id int, status domain.OrderStatus) (_ *domain.Order, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction for status update: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("UpdateOrderStatus: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit status update transaction: %w", cErr)
				r.log.Errorf("UpdateOrderStatus: %v", err)
			}
		}
	}()

	// Lock the row so concurrent transitions on the same order serialize.
	var current domain.OrderStatus
	err = tx.QueryRow(`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order %d not found for status update", id)
			return nil, fmt.Errorf("order %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to read current status for order %d: %v", id, err)
		return nil, fmt.Errorf("could not read order status: %w", err)
	}

	if !domain.CanTransition(current, status) {
		r.log.Warnf("Rejected status transition %s -> %s for order %d", current, status, id)
		err = fmt.Errorf("cannot move order from '%s' to '%s': %w", current, status, domain.ErrInvalidTransition)
		return nil, err
	}

	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id, order_number, status, total_amount, customer_name,
            customer_email, customer_phone, shipping_address, created_at, updated_at`

	updatedOrder := &domain.Order{}
	err = tx.QueryRow(query, status, id).Scan(
		&updatedOrder.ID,
		&updatedOrder.OrderNumber,
		&updatedOrder.Status,
		&updatedOrder.TotalAmount,
		&updatedOrder.CustomerName,
		&updatedOrder.CustomerEmail,
		&updatedOrder.CustomerPhone,
		&updatedOrder.ShippingAddress,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		r.log.Errorf("Failed to update status for order %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	items, err := r.getOrderItemsTx(tx, id)
	if err != nil {
		return nil, fmt.Errorf("order status updated, but failed to retrieve items: %w", err)
	}
	updatedOrder.Items = items

	r.log.Infof("Order %d moved from '%s' to '%s'", id, current, updatedOrder.Status)
	return updatedOrder, nil
}

func (r *postgresOrderRepository) getOrderItemsTx(tx *sql.Tx, orderID int) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal
        FROM order_items
        WHERE order_id = $1
        ORDER BY id`

	rows, err := tx.Query(itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items within tx for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items within tx: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductPrice, &item.Quantity, &item.Subtotal); err != nil {
			r.log.Errorf("Failed to scan order item row within tx for order ID %d: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item within tx: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration within tx for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items within tx: %w", err)
	}

	return items, nil
}
