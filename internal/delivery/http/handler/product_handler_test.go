package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"product-catalog-api/internal/delivery/dto"
	deliveryHttp "product-catalog-api/internal/delivery/http"
	"product-catalog-api/internal/delivery/http/handler"
	"product-catalog-api/internal/delivery/http/middleware"
	"product-catalog-api/internal/domain/entity"
	"product-catalog-api/internal/infrastructure/storage"
	"product-catalog-api/internal/repository"
	"product-catalog-api/internal/usecase"
	"product-catalog-api/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// A tiny but well-formed PNG (signature + IHDR for a 1x1 image) so MIME
// sniffing sees a real image.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// memoryCache is an in-memory stand-in for the Redis-backed read-through
// cache, honoring TTL expiry.
type memoryCache struct {
	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryCacheEntry)}
}

func (c *memoryCache) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func(ctx context.Context) (interface{}, error)) error {
	if entry, ok := c.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		return json.Unmarshal(entry.payload, dest)
	}
	value, err := compute(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = memoryCacheEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	return json.Unmarshal(payload, dest)
}

// setupAPI wires the full delivery stack against in-memory collaborators:
// SQLite for the store, MemMapFs for the public disk, memoryCache for Redis.
func setupAPI(t *testing.T) (*mux.Router, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Product{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	productRepo := repository.NewProductRepository(db)
	fileStorage := storage.NewLocalStorage(afero.NewMemMapFs(), "storage/public")
	productUsecase := usecase.NewProductUsecase(productRepo, newMemoryCache(), fileStorage, log)
	productHandler := handler.NewProductHandler(productUsecase, validator.NewValidator())

	router := deliveryHttp.NewRouter(
		productHandler,
		fileStorage.FileServer(),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
	)

	return router.Setup(), db
}

func productForm(t *testing.T, fields map[string]string, imageName string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("images", imageName)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doRequest(router *mux.Router, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return env
}

func validFields() map[string]string {
	return map[string]string{
		"name":        "Pen",
		"price":       "1.50",
		"stock":       "100",
		"description": "Blue ink pen",
	}
}

func createProduct(t *testing.T, router *mux.Router) {
	t.Helper()

	body, contentType := productForm(t, validFields(), "pen.png", pngBytes)
	recorder := doRequest(router, http.MethodPost, "/api/store", contentType, body)
	require.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	require.Equal(t, "success", env.Status)
	require.Equal(t, "Product added Successfully!", env.Message)
}

func TestCreateThenShowRoundTrip(t *testing.T) {
	router, _ := setupAPI(t)
	createProduct(t, router)

	recorder := doRequest(router, http.MethodGet, "/api/show/1", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "success", env.Status)

	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, uint(1), product.ID)
	assert.Equal(t, "Pen", product.Name)
	assert.True(t, product.Price.Equal(decimal.NewFromFloat(1.50)))
	assert.Equal(t, 100, product.Stock)
	assert.Equal(t, "Blue ink pen", product.Description)
	assert.Regexp(t, regexp.MustCompile(`^products/\d+_pen\.png$`), product.Images)
}

func TestCreateWithoutImageReturns400(t *testing.T) {
	router, _ := setupAPI(t)

	body, contentType := productForm(t, validFields(), "", nil)
	recorder := doRequest(router, http.MethodPost, "/api/store", contentType, body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Product Image is required!", env.Message)
}

func TestCreateValidationFailure(t *testing.T) {
	router, _ := setupAPI(t)

	fields := validFields()
	fields["name"] = ""
	body, contentType := productForm(t, fields, "pen.png", pngBytes)
	recorder := doRequest(router, http.MethodPost, "/api/store", contentType, body)

	// Validation failures keep HTTP 200; the envelope carries the outcome.
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "the name field is required")
}

func TestCreateRejectsNonImageUpload(t *testing.T) {
	router, _ := setupAPI(t)

	body, contentType := productForm(t, validFields(), "notes.txt", []byte("plain text, not an image"))
	recorder := doRequest(router, http.MethodPost, "/api/store", contentType, body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "must be a file of type")
}

func showImages(t *testing.T, router *mux.Router, id int) string {
	t.Helper()

	recorder := doRequest(router, http.MethodGet, fmt.Sprintf("/api/show/%d", id), "", nil)
	env := decodeEnvelope(t, recorder)
	require.Equal(t, "success", env.Status)

	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &product))
	return product.Images
}

func TestUpdateWithoutImageKeepsStoredPath(t *testing.T) {
	router, _ := setupAPI(t)
	createProduct(t, router)
	originalImages := showImages(t, router, 1)

	fields := validFields()
	fields["id"] = "1"
	fields["name"] = "Gel Pen"
	body, contentType := productForm(t, fields, "", nil)
	recorder := doRequest(router, http.MethodPost, "/api/update", contentType, body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Product updated successfully.", env.Message)

	recorder = doRequest(router, http.MethodGet, "/api/show/1", "", nil)
	env = decodeEnvelope(t, recorder)
	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "Gel Pen", product.Name)
	assert.Equal(t, originalImages, product.Images)
}

func TestUpdateWithImageReplacesStoredPath(t *testing.T) {
	router, _ := setupAPI(t)
	createProduct(t, router)
	originalImages := showImages(t, router, 1)

	fields := validFields()
	fields["id"] = "1"
	body, contentType := productForm(t, fields, "replacement.png", pngBytes)
	recorder := doRequest(router, http.MethodPost, "/api/update", contentType, body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "success", env.Status)

	updatedImages := showImages(t, router, 1)
	assert.NotEqual(t, originalImages, updatedImages)
	assert.Regexp(t, regexp.MustCompile(`^products/\d+_replacement\.png$`), updatedImages)
}

func TestUpdateNonexistentProduct(t *testing.T) {
	router, _ := setupAPI(t)

	fields := validFields()
	fields["id"] = "999"
	body, contentType := productForm(t, fields, "", nil)
	recorder := doRequest(router, http.MethodPost, "/api/update", contentType, body)

	assert.Equal(t, http.StatusOK, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "product not found", env.Message)
}

func TestShowNonexistentProduct(t *testing.T) {
	router, _ := setupAPI(t)

	recorder := doRequest(router, http.MethodGet, "/api/show/999", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "product not found", env.Message)
}

func TestDestroyIsIdempotent(t *testing.T) {
	router, _ := setupAPI(t)
	createProduct(t, router)

	for i := 0; i < 2; i++ {
		recorder := doRequest(router, http.MethodGet, "/api/destroy/1", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		env := decodeEnvelope(t, recorder)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "Product deleted successfully", env.Message)
	}

	// A never-existing id succeeds the same way.
	recorder := doRequest(router, http.MethodGet, "/api/destroy/424242", "", nil)
	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "success", env.Status)
}

func TestListEmptyTable(t *testing.T) {
	router, _ := setupAPI(t)

	recorder := doRequest(router, http.MethodGet, "/api/all-products", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "No Product Found!", env.Message)
}

func TestListIsServedFromCacheWithinTTL(t *testing.T) {
	router, db := setupAPI(t)
	createProduct(t, router)

	recorder := doRequest(router, http.MethodGet, "/api/all-products", "", nil)
	env := decodeEnvelope(t, recorder)
	require.Equal(t, "success", env.Status)

	var first []dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &first))
	require.Len(t, first, 1)

	// A row written behind the cache's back stays invisible until the TTL
	// expires; writes never invalidate the key.
	require.NoError(t, db.Create(&entity.Product{
		Name:        "Notebook",
		Price:       decimal.NewFromInt(3),
		Stock:       20,
		Description: "A5 ruled",
		Images:      "products/2_notebook.jpg",
	}).Error)

	recorder = doRequest(router, http.MethodGet, "/api/all-products", "", nil)
	env = decodeEnvelope(t, recorder)
	require.Equal(t, "success", env.Status)

	var second []dto.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Len(t, second, 1)
	assert.Equal(t, first, second)
}
