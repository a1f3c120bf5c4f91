package repository

import (
	"context"

	"product-catalog-api/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindAll(ctx context.Context) ([]entity.Product, error)
	// FindByID returns (nil, nil) when no row matches.
	FindByID(ctx context.Context, id uint) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete is a no-op when the id does not exist.
	Delete(ctx context.Context, id uint) error
}
