package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog-api/internal/converter"
	"product-catalog-api/internal/delivery/dto"
	domainCache "product-catalog-api/internal/domain/cache"
	"product-catalog-api/internal/domain/entity"
	"product-catalog-api/internal/domain/repository"
	domainStorage "product-catalog-api/internal/domain/storage"

	"github.com/sirupsen/logrus"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoProductFound  = errors.New("no products found")
	ErrImageRequired   = errors.New("product image is required")
)

const (
	// The full listing is memoized under a single key; writes do not
	// invalidate it, only TTL expiry does.
	productsCacheKey = "products"
	productsCacheTTL = 60 * time.Second

	// Namespace inside the storage root where product images land.
	imageNamespace = "products"
)

type ProductUsecase interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Create(ctx context.Context, req *dto.ProductRequest, image *dto.ImageUpload) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req *dto.ProductRequest, image *dto.ImageUpload) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
}

type productUsecase struct {
	productRepo repository.ProductRepository
	cache       domainCache.Store
	fileStorage domainStorage.FileStorage
	log         *logrus.Logger
}

func NewProductUsecase(
	productRepo repository.ProductRepository,
	cache domainCache.Store,
	fileStorage domainStorage.FileStorage,
	log *logrus.Logger,
) ProductUsecase {
	return &productUsecase{
		productRepo: productRepo,
		cache:       cache,
		fileStorage: fileStorage,
		log:         log,
	}
}

func (u *productUsecase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	var products []dto.ProductResponse

	err := u.cache.Remember(ctx, productsCacheKey, productsCacheTTL, &products, func(ctx context.Context) (interface{}, error) {
		rows, err := u.productRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return converter.ProductsToResponses(rows), nil
	})
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, ErrNoProductFound
	}

	return products, nil
}

func (u *productUsecase) Create(ctx context.Context, req *dto.ProductRequest, image *dto.ImageUpload) (*dto.ProductResponse, error) {
	// The images field is optional at the validation layer; create
	// re-enforces presence here.
	if image == nil {
		return nil, ErrImageRequired
	}

	path, err := u.storeImage(image)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Images:      path,
	}

	if err := u.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"images":     product.Images,
	}).Info("Product created")

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) GetByID(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	product, err := u.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) Update(ctx context.Context, id uint, req *dto.ProductRequest, image *dto.ImageUpload) (*dto.ProductResponse, error) {
	product, err := u.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	// A new upload replaces the stored path; otherwise it is retained.
	if image != nil {
		path, err := u.storeImage(image)
		if err != nil {
			return nil, err
		}
		product.Images = path
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Stock = req.Stock
	product.Description = req.Description

	if err := u.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	u.log.WithField("product_id", product.ID).Info("Product updated")

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) Delete(ctx context.Context, id uint) error {
	// Deleting an absent id is a no-op, so delete is idempotent.
	if err := u.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	u.log.WithField("product_id", id).Info("Product deleted")

	return nil
}

// storeImage persists the upload under a timestamp-prefixed name.
// TODO: the unix-second prefix can collide for same-named files uploaded in
// the same second; switch to a content hash once the stored paths are no
// longer asserted on by API consumers.
func (u *productUsecase) storeImage(image *dto.ImageUpload) (string, error) {
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), image.Filename)

	path, err := u.fileStorage.Save(imageNamespace, filename, image.Content)
	if err != nil {
		return "", fmt.Errorf("failed to store product image: %w", err)
	}

	return path, nil
}
