// Package seed loads the initial administrator account and, optionally, a
// small demo catalog. It runs once at startup and has no runtime role.
package seed

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

func Run(adminRepo domain.AdminRepository, productRepo domain.ProductRepository,
	adminUsername, adminPassword string, demoCatalog bool, log *logrus.Logger) error {

	if err := ensureAdmin(adminRepo, adminUsername, adminPassword, log); err != nil {
		return err
	}
	if demoCatalog {
		if err := ensureDemoCatalog(productRepo, log); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdmin(adminRepo domain.AdminRepository, username, password string, log *logrus.Logger) error {
	_, err := adminRepo.GetAdminByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("could not check for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash admin password: %w", err)
	}

	_, err = adminRepo.CreateAdmin(&domain.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
	})
	if err != nil {
		return fmt.Errorf("could not create admin user: %w", err)
	}

	log.Infof("Seed: Admin user '%s' created", username)
	return nil
}

func ensureDemoCatalog(productRepo domain.ProductRepository, log *logrus.Logger) error {
	existing, err := productRepo.ListProducts(domain.ProductFilter{})
	if err != nil {
		return fmt.Errorf("could not check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []domain.Product{
		{
			Name:             "Urban Cruiser X1",
			Slug:             "urban-cruiser-x1",
			Category:         "urbane",
			Brand:            "Cicli Volante",
			Price:            decimal.RequireFromString("1299.00"),
			ShortDescription: "Perfetta per la città, autonomia estesa e comfort superiore.",
			Autonomy:         80,
			Motor:            "250W Brushless",
			MainImage:        "https://placehold.co/600x400?text=Urban+Cruiser",
			StockQuantity:    10,
			IsFeatured:       true,
		},
		{
			Name:             "Mountain King Pro",
			Slug:             "mountain-king-pro",
			Category:         "mountain",
			Brand:            "Cicli Volante",
			Price:            decimal.RequireFromString("2499.00"),
			ShortDescription: "Domina ogni sentiero con la potenza del motore centrale.",
			Autonomy:         60,
			Motor:            "500W Mid-Drive",
			MainImage:        "https://placehold.co/600x400?text=Mountain+King",
			StockQuantity:    5,
			IsBestseller:     true,
		},
		{
			Name:             "FoldGo Compact",
			Slug:             "foldgo-compact",
			Category:         "pieghevoli",
			Brand:            "Cicli Volante",
			Price:            decimal.RequireFromString("899.00"),
			ShortDescription: "Leggera, pieghevole e pronta per il viaggio.",
			Autonomy:         40,
			Motor:            "250W Rear Hub",
			MainImage:        "https://placehold.co/600x400?text=FoldGo",
			StockQuantity:    20,
		},
	}

	for i := range demo {
		if _, err := productRepo.CreateProduct(&demo[i]); err != nil {
			return fmt.Errorf("could not seed product '%s': %w", demo[i].Slug, err)
		}
	}

	log.Infof("Seed: Demo catalog loaded (%d products)", len(demo))
	return nil
}
