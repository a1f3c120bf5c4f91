package dto

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// ProductRequest carries the multipart form fields shared by the create and
// update operations. Price and stock presence is enforced while parsing the
// form; the tags cover the remaining rules.
type ProductRequest struct {
	Name        string          `form:"name" validate:"required,max=255"`
	Price       decimal.Decimal `form:"price" validate:"gte=0"`
	Stock       int             `form:"stock" validate:"gte=0"`
	Description string          `form:"description" validate:"required"`
}

// ImageUpload is an uploaded image file ready to be stored.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Response DTOs

type ProductResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Images      string          `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
