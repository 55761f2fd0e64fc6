package usecase

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeProductRepository serves products from an in-memory map.
type fakeProductRepository struct {
	products    map[int]domain.Product
	slugs       map[string]int
	nextID      int
	listErr     error
	createCalls int
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{
		products: make(map[int]domain.Product),
		slugs:    make(map[string]int),
		nextID:   1,
	}
}

func (f *fakeProductRepository) add(p domain.Product) domain.Product {
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = p
	f.slugs[p.Slug] = p.ID
	return p
}

func (f *fakeProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	f.createCalls++
	if _, exists := f.slugs[product.Slug]; exists {
		return nil, fmt.Errorf("product with slug '%s' %w", product.Slug, domain.ErrConflict)
	}
	stored := f.add(*product)
	*product = stored
	return product, nil
}

func (f *fakeProductRepository) GetProductByID(id int) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeProductRepository) GetProductBySlug(slug string) (*domain.Product, error) {
	id, ok := f.slugs[slug]
	if !ok {
		return nil, fmt.Errorf("product %s %w", slug, domain.ErrNotFound)
	}
	return f.GetProductByID(id)
}

func (f *fakeProductRepository) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []domain.Product{}
	for id := 1; id < f.nextID; id++ {
		p, ok := f.products[id]
		if !ok {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Featured != nil && p.IsFeatured != *filter.Featured {
			continue
		}
		if filter.Bestseller != nil && p.IsBestseller != *filter.Bestseller {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeProductRepository) DeleteProduct(id int) error {
	p, ok := f.products[id]
	if !ok {
		return fmt.Errorf("product %d %w", id, domain.ErrNotFound)
	}
	delete(f.products, id)
	delete(f.slugs, p.Slug)
	return nil
}

// fakeOrderRepository records created orders and can simulate order number
// collisions and storage failures.
type fakeOrderRepository struct {
	orders       []domain.Order
	nextID       int
	conflictLeft int
	createErr    error
	createCalls  int
	numbersSeen  []string
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{nextID: 1}
}

func (f *fakeOrderRepository) CreateOrder(order *domain.Order) (*domain.Order, error) {
	f.createCalls++
	f.numbersSeen = append(f.numbersSeen, order.OrderNumber)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.conflictLeft > 0 {
		f.conflictLeft--
		return nil, fmt.Errorf("order number '%s' %w", order.OrderNumber, domain.ErrConflict)
	}
	order.ID = f.nextID
	f.nextID++
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	f.orders = append(f.orders, *order)
	return order, nil
}

func (f *fakeOrderRepository) GetOrderByNumber(orderNumber string) (*domain.Order, error) {
	for i := range f.orders {
		if f.orders[i].OrderNumber == orderNumber {
			order := f.orders[i]
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order %s %w", orderNumber, domain.ErrNotFound)
}

func (f *fakeOrderRepository) GetOrderByID(id int) (*domain.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			order := f.orders[i]
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order %d %w", id, domain.ErrNotFound)
}

func (f *fakeOrderRepository) ListOrders() ([]domain.Order, error) {
	result := make([]domain.Order, 0, len(f.orders))
	for i := len(f.orders) - 1; i >= 0; i-- {
		result = append(result, f.orders[i])
	}
	return result, nil
}

func (f *fakeOrderRepository) UpdateOrderStatus(id int, status domain.OrderStatus) (*domain.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID != id {
			continue
		}
		if !domain.CanTransition(f.orders[i].Status, status) {
			return nil, fmt.Errorf("cannot move order from '%s' to '%s': %w",
				f.orders[i].Status, status, domain.ErrInvalidTransition)
		}
		f.orders[i].Status = status
		order := f.orders[i]
		return &order, nil
	}
	return nil, fmt.Errorf("order %d %w", id, domain.ErrNotFound)
}

// fakeAdminRepository keeps admin users in memory.
type fakeAdminRepository struct {
	users  map[string]domain.AdminUser
	nextID int
}

func newFakeAdminRepository() *fakeAdminRepository {
	return &fakeAdminRepository{
		users:  make(map[string]domain.AdminUser),
		nextID: 1,
	}
}

func (f *fakeAdminRepository) CreateAdmin(user *domain.AdminUser) (*domain.AdminUser, error) {
	if _, exists := f.users[user.Username]; exists {
		return nil, fmt.Errorf("admin '%s' %w", user.Username, domain.ErrConflict)
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = *user
	return user, nil
}

func (f *fakeAdminRepository) GetAdminByUsername(username string) (*domain.AdminUser, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, fmt.Errorf("admin '%s' %w", username, domain.ErrNotFound)
	}
	return &user, nil
}

func (f *fakeAdminRepository) GetAdminByID(id int) (*domain.AdminUser, error) {
	for _, user := range f.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("admin %d %w", id, domain.ErrNotFound)
}
