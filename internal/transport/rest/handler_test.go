package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perrors "github.com/abgdnv/minishop/internal/errors"
	"github.com/abgdnv/minishop/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	transfer *service.ProductTransferDto
	product  *service.ProductDto
	products []service.ProductDto
	seeded   int
	error    error
}

func (m *mockProductService) FindByID(_ context.Context, _ uuid.UUID) (*service.ProductTransferDto, error) {
	return m.transfer, m.error
}

func (m *mockProductService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	return m.products, m.error
}

func (m *mockProductService) Create(_ context.Context, _ service.ProductTransferDto) (*service.ProductDto, error) {
	return m.product, m.error
}

func (m *mockProductService) Seed(_ context.Context) (int, error) {
	return m.seeded, m.error
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testID = "123e4567-e89b-12d3-a456-426614174000"

// cancelled mimics a store error caused by the client closing the connection
// while a database call was in flight.
func cancelled() error {
	return fmt.Errorf("failed to fetch: %w", context.Canceled)
}

func Test_Handler_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product found, id omitted",
			mockService: &mockProductService{
				transfer: &service.ProductTransferDto{
					Name:        "Widget",
					Description: "A widget",
					Price:       decimal.RequireFromString("19.99"),
					Stock:       5,
				},
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"name":"Widget","description":"A widget","price":19.99,"stock":5}`,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: perrors.ErrProductNotFound},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"Product with ID ` + testID + ` not found"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Failed to retrieve product with ID ` + testID + `"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/products/"+testID, nil)
			req.SetPathValue("id", testID)
			rr := httptest.NewRecorder()

			// when
			handler.FindByID(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_FindByID_Cancelled(t *testing.T) {
	// given
	handler := NewHandler(&mockProductService{error: cancelled()}, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/products/"+testID, nil)
	req.SetPathValue("id", testID)
	rr := httptest.NewRecorder()

	// when
	handler.FindByID(rr, req)

	// then
	assert.Equal(t, 499, rr.Code, "client cancellation answers 499")
	assert.Empty(t, rr.Body.String())
}

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - products found with ids",
			mockService: &mockProductService{
				products: []service.ProductDto{
					{ID: "1", Name: "Product 1", Price: decimal.NewFromInt(100), Stock: 10},
					{ID: "2", Name: "Product 2", Price: decimal.NewFromInt(200), Stock: 20},
				},
			},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":"1","name":"Product 1","description":"","price":100,"stock":10},{"id":"2","name":"Product 2","description":"","price":200,"stock":20}]`,
		},
		{
			name:         "Success - no products",
			mockService:  &mockProductService{products: []service.ProductDto{}},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Failed to fetch products"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			rr := httptest.NewRecorder()

			// when
			handler.FindAll(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_FindAll_Cancelled(t *testing.T) {
	// given
	handler := NewHandler(&mockProductService{error: cancelled()}, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rr := httptest.NewRecorder()

	// when
	handler.FindAll(rr, req)

	// then
	assert.Equal(t, 499, rr.Code)
}

func Test_Handler_Create(t *testing.T) {
	created := &service.ProductDto{
		ID:          testID,
		Name:        "Widget",
		Description: "A widget",
		Price:       decimal.RequireFromString("19.99"),
		Stock:       5,
	}
	testCases := []struct {
		name             string
		mockService      *mockProductService
		body             string
		expectedCode     int
		expectedBody     string
		expectedLocation string
	}{
		{
			name:             "Success - product created",
			mockService:      &mockProductService{product: created},
			body:             `{"name":"Widget","description":"A widget","price":19.99,"stock":5}`,
			expectedCode:     http.StatusCreated,
			expectedBody:     `{"id":"` + testID + `","name":"Widget","description":"A widget","price":19.99,"stock":5}`,
			expectedLocation: "/api/products/" + testID,
		},
		{
			name:         "Success - negative price and stock are accepted",
			mockService:  &mockProductService{product: created},
			body:         `{"name":"Widget","price":-1,"stock":-5}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":"` + testID + `","name":"Widget","description":"A widget","price":19.99,"stock":5}`,
		},
		{
			name:         "Error - invalid JSON body",
			mockService:  &mockProductService{},
			body:         `{not json`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Invalid request body"}`,
		},
		{
			name:         "Error - missing name",
			mockService:  &mockProductService{},
			body:         `{"price":19.99,"stock":5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Name failed on rule: required"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			body:         `{"name":"Widget"}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Failed to create product"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			handler.Create(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
			}
		})
	}
}

func Test_Handler_Create_Cancelled(t *testing.T) {
	// given
	handler := NewHandler(&mockProductService{error: cancelled()}, testLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Widget"}`))
	rr := httptest.NewRecorder()

	// when
	handler.Create(rr, req)

	// then
	assert.Equal(t, 499, rr.Code)
}

func Test_Handler_Seed(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - ten products inserted",
			mockService:  &mockProductService{seeded: 10},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"10 fake products inserted successfully"}`,
		},
		{
			name:         "Error - products already exist",
			mockService:  &mockProductService{error: perrors.ErrProductsExist},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Products already exist"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Failed to seed products"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodGet, "/api/seed-products", nil)
			rr := httptest.NewRecorder()

			// when
			handler.Seed(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_Routing(t *testing.T) {
	// given: the full route table wired into a chi mux
	mux := chi.NewRouter()
	NewHandler(&mockProductService{transfer: &service.ProductTransferDto{Name: "Widget"}}, testLogger()).RegisterRoutes(mux)

	testCases := []struct {
		name         string
		method       string
		target       string
		expectedCode int
	}{
		{name: "root greeting", method: http.MethodGet, target: "/", expectedCode: http.StatusOK},
		{name: "healthz", method: http.MethodGet, target: "/healthz", expectedCode: http.StatusOK},
		{name: "well-formed id reaches handler", method: http.MethodGet, target: "/api/products/" + testID, expectedCode: http.StatusOK},
		{name: "malformed id rejected by router", method: http.MethodGet, target: "/api/products/not-a-uuid", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			rr := httptest.NewRecorder()

			// when
			mux.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_Handler_Greeting(t *testing.T) {
	// given
	handler := NewHandler(&mockProductService{}, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	// when
	handler.Greeting(rr, req)

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Hello World!", rr.Body.String())
}
