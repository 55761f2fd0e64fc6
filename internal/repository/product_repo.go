package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const productColumns = `id, name, slug, category, brand, price, original_price,
        short_description, full_description, autonomy, motor, battery_wh,
        main_image, stock_quantity, is_featured, is_bestseller, created_at`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, slug, category, brand, price, original_price,
            short_description, full_description, autonomy, motor, battery_wh,
            main_image, stock_quantity, is_featured, is_bestseller)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id, created_at`

	r.log.Debugf("Repository: Attempting to create product with slug: %s", product.Slug)

	err := r.db.QueryRow(query,
		product.Name,
		product.Slug,
		product.Category,
		product.Brand,
		product.Price,
		product.OriginalPrice,
		product.ShortDescription,
		product.FullDescription,
		product.Autonomy,
		product.Motor,
		product.BatteryWh,
		product.MainImage,
		product.StockQuantity,
		product.IsFeatured,
		product.IsBestseller,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create product with duplicate slug: %s", product.Slug)
			return nil, fmt.Errorf("product with slug '%s' %w", product.Slug, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Slug, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	r.log.Infof("Repository: Product created successfully with ID: %d, Slug: %s", product.ID, product.Slug)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getProduct(query, strconv.Itoa(id), id)
}

func (r *postgresProductRepository) GetProductBySlug(slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.getProduct(query, slug, slug)
}

func (r *postgresProductRepository) getProduct(query, label string, arg interface{}) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.QueryRow(query, arg).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Category,
		&product.Brand,
		&product.Price,
		&product.OriginalPrice,
		&product.ShortDescription,
		&product.FullDescription,
		&product.Autonomy,
		&product.Motor,
		&product.BatteryWh,
		&product.MainImage,
		&product.StockQuantity,
		&product.IsFeatured,
		&product.IsBestseller,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("Repository: Product %s not found", label)
			return nil, fmt.Errorf("product %s %w", label, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get product %s: %v", label, err)
		return nil, fmt.Errorf("could not get product: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", len(args)))
	}
	if filter.Bestseller != nil {
		args = append(args, *filter.Bestseller)
		conditions = append(conditions, fmt.Sprintf("is_bestseller = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Category,
			&product.Brand,
			&product.Price,
			&product.OriginalPrice,
			&product.ShortDescription,
			&product.FullDescription,
			&product.Autonomy,
			&product.Motor,
			&product.BatteryWh,
			&product.MainImage,
			&product.StockQuantity,
			&product.IsFeatured,
			&product.IsBestseller,
			&product.CreatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during product iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Debugf("Repository: Retrieved %d products", len(products))
	return products, nil
}

func (r *postgresProductRepository) DeleteProduct(id int) error {
	// Order items keep their own name/price snapshot, so removing the
	// product never touches historical orders.
	result, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Repository: Product %d not found for deletion", id)
		return fmt.Errorf("product %d %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Repository: Product %d deleted", id)
	return nil
}
