package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"product-catalog-api/internal/delivery/dto"
	"product-catalog-api/internal/usecase"
	"product-catalog-api/pkg/response"
	"product-catalog-api/pkg/validator"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const (
	// In-memory budget for parsing multipart bodies; larger files spill
	// to temp files.
	maxUploadMemory = 8 << 20

	maxImageBytes = 2048 << 10
)

var allowedImageMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/svg+xml",
}

type ProductHandler struct {
	productUsecase usecase.ProductUsecase
	validator      *validator.CustomValidator
}

func NewProductHandler(productUsecase usecase.ProductUsecase, validator *validator.CustomValidator) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		validator:      validator,
	}
}

// List handles listing all products
// @Summary List all products
// @Description Get the full product list, memoized for 60 seconds
// @Tags Products
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /all-products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productUsecase.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "", products)
}

// Create handles product creation
// @Summary Create a new product
// @Description Create a product from a multipart form with an image file
// @Tags Products
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /store [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, cleanup, err := h.parseProductForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer cleanup()

	if _, err := h.productUsecase.Create(r.Context(), req, image); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Product added Successfully!", nil)
}

// Show handles getting a single product
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Envelope
// @Router /show/{id} [get]
func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	product, err := h.productUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "", product)
}

// Update handles product update
// @Summary Update a product
// @Description Update a product from a multipart form; the image file is optional
// @Tags Products
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /update [post]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, image, cleanup, err := h.parseProductForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer cleanup()

	idValue := r.FormValue("id")
	if idValue == "" {
		h.writeError(w, errors.New("the id field is required"))
		return
	}
	id, err := parseID(idValue)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.productUsecase.Update(r.Context(), id, req, image); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Product updated successfully.", nil)
}

// Destroy handles product deletion
// @Summary Delete a product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Envelope
// @Router /destroy/{id} [get]
func (h *ProductHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.productUsecase.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, "Product deleted successfully", nil)
}

// writeError is the single translation point from operation errors to the
// response envelope. Only the missing image on create maps to a non-200
// status; everything else ships as an error envelope with HTTP 200, so
// callers distinguish outcomes by the status field and message.
func (h *ProductHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrImageRequired):
		response.Err(w, http.StatusBadRequest, "Product Image is required!")
	case errors.Is(err, usecase.ErrNoProductFound):
		response.Err(w, http.StatusOK, "No Product Found!")
	default:
		response.Err(w, http.StatusOK, err.Error())
	}
}

// parseProductForm parses the multipart body into the shared request DTO,
// validates it and extracts the optional image upload. The returned cleanup
// closes the upload when one is present and must be deferred by the caller.
func (h *ProductHandler) parseProductForm(r *http.Request) (*dto.ProductRequest, *dto.ImageUpload, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, noop, errors.New("invalid multipart form")
	}

	priceValue := r.FormValue("price")
	if priceValue == "" {
		return nil, nil, noop, errors.New("the price field is required")
	}
	price, err := decimal.NewFromString(priceValue)
	if err != nil {
		return nil, nil, noop, errors.New("the price field must be a number")
	}

	stockValue := r.FormValue("stock")
	if stockValue == "" {
		return nil, nil, noop, errors.New("the stock field is required")
	}
	stock, err := strconv.Atoi(stockValue)
	if err != nil {
		return nil, nil, noop, errors.New("the stock field must be an integer")
	}

	req := &dto.ProductRequest{
		Name:        r.FormValue("name"),
		Price:       price,
		Stock:       stock,
		Description: r.FormValue("description"),
	}

	if err := h.validator.Validate(req); err != nil {
		return nil, nil, noop, errors.New(h.validator.Message(err))
	}

	file, header, err := r.FormFile("images")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, noop, nil
		}
		return nil, nil, noop, errors.New("invalid images upload")
	}

	if err := validateImage(file, header); err != nil {
		file.Close()
		return nil, nil, noop, err
	}

	image := &dto.ImageUpload{
		Filename: filepath.Base(header.Filename),
		Size:     header.Size,
		Content:  file,
	}

	return req, image, func() { file.Close() }, nil
}

// validateImage enforces the upload rules: an image MIME type out of the
// allowed set, at most 2048 KB. The reader is rewound after sniffing.
func validateImage(file multipart.File, header *multipart.FileHeader) error {
	if header.Size > maxImageBytes {
		return errors.New("the images field must not be greater than 2048 kilobytes")
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return errors.New("the images field could not be read")
	}
	if _, err := file.Seek(0, 0); err != nil {
		return errors.New("the images field could not be read")
	}

	for _, allowed := range allowedImageMIMEs {
		if mtype.Is(allowed) {
			return nil
		}
	}

	return errors.New("the images field must be a file of type: jpeg, png, jpg, gif, svg")
}

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("the id field must be an integer")
	}
	return uint(id), nil
}
