package usecase

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

// slugPattern keeps slugs URL-safe: lowercase alphanumerics separated by
// single hyphens, e.g. "urban-cruiser-x1".
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type catalogUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCatalogUseCase(repo domain.ProductRepository, logger *logrus.Logger) domain.CatalogUseCase {
	return &catalogUseCase{
		productRepo: repo,
		log:         logger,
	}
}

func (uc *catalogUseCase) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(filter)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, err
	}
	uc.log.Debugf("Use Case: Retrieved %d products", len(products))
	return products, nil
}

func (uc *catalogUseCase) GetBySlug(slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, domain.NewValidationError("slug", "cannot be empty")
	}
	product, err := uc.productRepo.GetProductBySlug(slug)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *catalogUseCase) CreateProduct(input domain.ProductInput) (*domain.Product, error) {
	uc.log.Infof("Use Case: Attempting to create product with slug: %s", input.Slug)

	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Category = strings.TrimSpace(input.Category)

	if input.Name == "" {
		return nil, domain.NewValidationError("name", "cannot be empty")
	}
	if input.Slug == "" {
		return nil, domain.NewValidationError("slug", "cannot be empty")
	}
	if !slugPattern.MatchString(input.Slug) {
		return nil, domain.NewValidationError("slug", "must be lowercase letters, digits and hyphens")
	}
	if input.Category == "" {
		return nil, domain.NewValidationError("category", "cannot be empty")
	}
	if !input.Price.IsPositive() {
		return nil, domain.NewValidationError("price", "must be greater than zero")
	}
	if input.OriginalPrice.Valid && !input.OriginalPrice.Decimal.IsPositive() {
		return nil, domain.NewValidationError("originalPrice", "must be greater than zero when provided")
	}
	if input.StockQuantity < 0 {
		return nil, domain.NewValidationError("stockQuantity", "cannot be negative")
	}
	if input.Autonomy < 0 {
		return nil, domain.NewValidationError("autonomy", "cannot be negative")
	}
	if input.BatteryWh < 0 {
		return nil, domain.NewValidationError("batteryWh", "cannot be negative")
	}

	product := &domain.Product{
		Name:             input.Name,
		Slug:             input.Slug,
		Category:         input.Category,
		Brand:            input.Brand,
		Price:            input.Price,
		OriginalPrice:    input.OriginalPrice,
		ShortDescription: input.ShortDescription,
		FullDescription:  input.FullDescription,
		Autonomy:         input.Autonomy,
		Motor:            input.Motor,
		BatteryWh:        input.BatteryWh,
		MainImage:        input.MainImage,
		StockQuantity:    input.StockQuantity,
		IsFeatured:       input.IsFeatured,
		IsBestseller:     input.IsBestseller,
	}

	created, err := uc.productRepo.CreateProduct(product)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create product '%s': %v", input.Slug, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product created successfully. ID: %d, Slug: %s", created.ID, created.Slug)
	return created, nil
}

func (uc *catalogUseCase) DeleteProduct(id int) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive integer")
	}
	if err := uc.productRepo.DeleteProduct(id); err != nil {
		uc.log.Warnf("Use Case: Failed to delete product %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product %d deleted", id)
	return nil
}
