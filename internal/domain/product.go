package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int                 `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	Category         string              `json:"category"`
	Brand            string              `json:"brand,omitempty"`
	Price            decimal.Decimal     `json:"price"`
	OriginalPrice    decimal.NullDecimal `json:"originalPrice,omitempty"`
	ShortDescription string              `json:"shortDescription,omitempty"`
	FullDescription  string              `json:"fullDescription,omitempty"`
	Autonomy         int                 `json:"autonomy,omitempty"`
	Motor            string              `json:"motor,omitempty"`
	BatteryWh        int                 `json:"batteryWh,omitempty"`
	MainImage        string              `json:"mainImage,omitempty"`
	StockQuantity    int                 `json:"stockQuantity"`
	IsFeatured       bool                `json:"isFeatured"`
	IsBestseller     bool                `json:"isBestseller"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// ProductFilter narrows a catalog listing. Nil fields are not applied;
// provided fields combine with logical AND.
type ProductFilter struct {
	Category   *string
	Featured   *bool
	Bestseller *bool
}

type ProductInput struct {
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	Category         string              `json:"category"`
	Brand            string              `json:"brand"`
	Price            decimal.Decimal     `json:"price"`
	OriginalPrice    decimal.NullDecimal `json:"originalPrice"`
	ShortDescription string              `json:"shortDescription"`
	FullDescription  string              `json:"fullDescription"`
	Autonomy         int                 `json:"autonomy"`
	Motor            string              `json:"motor"`
	BatteryWh        int                 `json:"batteryWh"`
	MainImage        string              `json:"mainImage"`
	StockQuantity    int                 `json:"stockQuantity"`
	IsFeatured       bool                `json:"isFeatured"`
	IsBestseller     bool                `json:"isBestseller"`
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int) (*Product, error)
	GetProductBySlug(slug string) (*Product, error)
	ListProducts(filter ProductFilter) ([]Product, error)
	DeleteProduct(id int) error
}

type CatalogUseCase interface {
	ListProducts(filter ProductFilter) ([]Product, error)
	GetBySlug(slug string) (*Product, error)
	CreateProduct(input ProductInput) (*Product, error)
	DeleteProduct(id int) error
}
