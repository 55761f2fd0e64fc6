package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// statusTransitions is the full order lifecycle. Delivered and cancelled are
// terminal; no transition leaves them.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func IsValidStatus(status OrderStatus) bool {
	_, ok := statusTransitions[status]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	ShippingAddress string          `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem carries its own name and price snapshot so a later product
// change or deletion never alters a historical order.
type OrderItem struct {
	ID           int             `json:"id"`
	OrderID      int             `json:"orderId"`
	ProductID    int             `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// OrderDraft is the customer-supplied part of a new order.
type OrderDraft struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	ShippingAddress string `json:"shippingAddress"`
}

// OrderLine is one cart line request: which product, how many.
type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderReceipt struct {
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type OrderRepository interface {
	// CreateOrder persists the order and all its items as one atomic unit.
	// Returns ErrConflict when the order number is already taken.
	CreateOrder(order *Order) (*Order, error)
	GetOrderByNumber(orderNumber string) (*Order, error)
	GetOrderByID(id int) (*Order, error)
	// ListOrders returns every order, newest first.
	ListOrders() ([]Order, error)
	// UpdateOrderStatus applies the lifecycle transition under a row lock and
	// returns ErrInvalidTransition (leaving the stored status unchanged) when
	// the move is not allowed.
	UpdateOrderStatus(id int, status OrderStatus) (*Order, error)
}

type OrderUseCase interface {
	CreateOrder(draft OrderDraft, lines []OrderLine) (*OrderReceipt, error)
	GetOrder(orderNumber string) (*Order, error)
	ListOrders() ([]Order, error)
	UpdateStatus(id int, status OrderStatus) (*Order, error)
}
