// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	perrors "github.com/abgdnv/minishop/internal/errors"
	"github.com/abgdnv/minishop/internal/service"
	"github.com/abgdnv/minishop/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// uuidPattern constrains the {id} route parameter, so malformed ids are
// rejected by the router with a 404 before any handler runs.
const uuidPattern = "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}"

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/", h.Greeting)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get(fmt.Sprintf("/{id:%s}", uuidPattern), h.FindByID)
	})
	r.Get("/api/seed-products", h.Seed)

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID and responds with its id-less
// wire projection.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if web.IsCancellation(err) {
			h.respondCancelled(w, r, mLogger)
			return
		}
		if errors.Is(err, perrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", id, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindAll retrieves the full product list, ids included.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		if web.IsCancellation(err) {
			h.respondCancelled(w, r, mLogger)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product. On success it answers 201
// with the full product and a Location header pointing at the new resource.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var transfer service.ProductTransferDto
	if err := json.NewDecoder(r.Body).Decode(&transfer); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", transfer.Name)
	if err := h.validate.Struct(transfer); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fieldErrors := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fieldErrors = append(fieldErrors, fieldErr.Field()+" failed on rule: "+fieldErr.Tag())
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
			web.RespondError(w, mLogger, http.StatusBadRequest, strings.Join(fieldErrors, "; "))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	newProduct, err := h.service.Create(r.Context(), transfer)
	if err != nil {
		if web.IsCancellation(err) {
			h.respondCancelled(w, r, mLogger)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	w.Header().Set("Location", "/api/products/"+newProduct.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Seed inserts a batch of fake products, but only into an empty table.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to seed products")
	count, err := h.service.Seed(r.Context())
	if err != nil {
		if web.IsCancellation(err) {
			h.respondCancelled(w, r, mLogger)
			return
		}
		if errors.Is(err, perrors.ErrProductsExist) {
			mLogger.WarnContext(r.Context(), "Seeding rejected, products already exist")
			web.RespondError(w, mLogger, http.StatusBadRequest, "Products already exist")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error seeding products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to seed products")
		return
	}
	mLogger.InfoContext(r.Context(), "Products seeded successfully", "count", count)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%d fake products inserted successfully", count),
	})
}

// Greeting handles the root route.
func (h *Handler) Greeting(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello World!"))
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondCancelled answers 499 when the client abandoned the request while
// a database operation was in flight. This is a normal outcome, not a fault.
func (h *Handler) respondCancelled(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) {
	mLogger.DebugContext(r.Context(), "Request cancelled by client")
	w.WriteHeader(web.StatusClientClosedRequest)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
