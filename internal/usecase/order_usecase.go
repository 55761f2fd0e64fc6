package usecase

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

// orderNumberAttempts bounds the retry loop when a generated order number
// collides with an existing one. The unique index on orders.order_number is
// what actually enforces uniqueness; the loop just picks a fresh candidate.
const orderNumberAttempts = 5

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
	now         func() time.Time
}

func NewOrderUseCase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		log:         logger,
		now:         time.Now,
	}
}

func (uc *orderUseCase) CreateOrder(draft domain.OrderDraft, lines []domain.OrderLine) (*domain.OrderReceipt, error) {
	if err := validateDraft(&draft); err != nil {
		uc.log.Warnf("Use Case: Rejected order draft: %v", err)
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.NewValidationError("items", "order must contain at least one item")
	}
	for i, line := range lines {
		if line.ProductID <= 0 {
			return nil, domain.NewValidationError("items", fmt.Sprintf("item %d: invalid product id", i))
		}
		if line.Quantity < 1 {
			return nil, domain.NewValidationError("items", fmt.Sprintf("item %d (product %d): quantity must be at least 1", i, line.ProductID))
		}
	}

	// Resolve every line before writing anything. A single unresolved
	// product fails the whole order, so the persisted total always matches
	// the cart the customer submitted.
	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, err := uc.productRepo.GetProductByID(line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.log.Warnf("Use Case: Order references unknown product %d", line.ProductID)
				return nil, domain.NewValidationError("items", fmt.Sprintf("product %d does not exist", line.ProductID))
			}
			uc.log.Errorf("Use Case: Failed to resolve product %d: %v", line.ProductID, err)
			return nil, fmt.Errorf("could not resolve product %d: %w", line.ProductID, err)
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     line.Quantity,
			Subtotal:     subtotal,
		})
		total = total.Add(subtotal)
	}

	order := &domain.Order{
		Status:          domain.StatusPending,
		TotalAmount:     total,
		CustomerName:    draft.CustomerName,
		CustomerEmail:   draft.CustomerEmail,
		CustomerPhone:   draft.CustomerPhone,
		ShippingAddress: draft.ShippingAddress,
		Items:           items,
	}

	var created *domain.Order
	for attempt := 1; ; attempt++ {
		order.OrderNumber = uc.generateOrderNumber()
		var err error
		created, err = uc.orderRepo.CreateOrder(order)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConflict) && attempt < orderNumberAttempts {
			uc.log.Warnf("Use Case: Order number %s collided, retrying (attempt %d)", order.OrderNumber, attempt)
			continue
		}
		uc.log.Errorf("Use Case: Repository failed to create order: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %s created for %s (total %s, %d items)",
		created.OrderNumber, created.CustomerEmail, created.TotalAmount.StringFixed(2), len(created.Items))

	return &domain.OrderReceipt{
		OrderNumber: created.OrderNumber,
		TotalAmount: created.TotalAmount,
	}, nil
}

func (uc *orderUseCase) GetOrder(orderNumber string) (*domain.Order, error) {
	if orderNumber == "" {
		return nil, domain.NewValidationError("orderNumber", "cannot be empty")
	}
	order, err := uc.orderRepo.GetOrderByNumber(orderNumber)
	if err != nil {
		uc.log.Debugf("Use Case: Failed to get order %s: %v", orderNumber, err)
		return nil, err
	}
	return order, nil
}

func (uc *orderUseCase) ListOrders() ([]domain.Order, error) {
	orders, err := uc.orderRepo.ListOrders()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders: %v", err)
		return nil, err
	}
	uc.log.Debugf("Use Case: Retrieved %d orders", len(orders))
	return orders, nil
}

func (uc *orderUseCase) UpdateStatus(id int, status domain.OrderStatus) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "must be a positive integer")
	}
	if !domain.IsValidStatus(status) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status '%s'", status))
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(id, status)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update status for order %d to '%s': %v", id, status, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d status updated to '%s'", updated.ID, updated.Status)
	return updated, nil
}

// generateOrderNumber builds a human-readable candidate like ORD2026080042.
// Uniqueness is enforced by the database, not by this format.
func (uc *orderUseCase) generateOrderNumber() string {
	now := uc.now()
	return fmt.Sprintf("ORD%d%02d%04d", now.Year(), int(now.Month()), rand.Intn(10000))
}

func validateDraft(draft *domain.OrderDraft) error {
	draft.CustomerName = strings.TrimSpace(draft.CustomerName)
	draft.CustomerEmail = strings.TrimSpace(draft.CustomerEmail)
	draft.ShippingAddress = strings.TrimSpace(draft.ShippingAddress)

	if draft.CustomerName == "" {
		return domain.NewValidationError("customerName", "cannot be empty")
	}
	if draft.CustomerEmail == "" || !strings.Contains(draft.CustomerEmail, "@") {
		return domain.NewValidationError("customerEmail", "must be a valid email address")
	}
	if draft.ShippingAddress == "" {
		return domain.NewValidationError("shippingAddress", "cannot be empty")
	}
	return nil
}
