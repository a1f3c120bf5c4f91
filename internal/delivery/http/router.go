package http

import (
	"net/http"

	"product-catalog-api/internal/delivery/http/handler"
	"product-catalog-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	productHandler    *handler.ProductHandler
	storageFileServer http.Handler
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	productHandler *handler.ProductHandler,
	storageFileServer http.Handler,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		productHandler:    productHandler,
		storageFileServer: storageFileServer,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Product routes
	api.HandleFunc("/all-products", r.productHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/store", r.productHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/show/{id:[0-9]+}", r.productHandler.Show).Methods(http.MethodGet)
	api.HandleFunc("/update", r.productHandler.Update).Methods(http.MethodPost)
	api.HandleFunc("/destroy/{id:[0-9]+}", r.productHandler.Destroy).Methods(http.MethodGet)

	// Stored images are served back from the public disk
	r.router.PathPrefix("/storage/").Handler(
		http.StripPrefix("/storage/", r.storageFileServer),
	)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
