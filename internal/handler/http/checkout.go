package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/pricing-engine/internal/domain"
	"github.com/utafrali/pricing-engine/pkg/httputil"
	"github.com/utafrali/pricing-engine/pkg/validator"
)

// CheckoutCalculator is the service contract the handler depends on.
type CheckoutCalculator interface {
	CalculateFinalPrice(ctx context.Context, cart []domain.CartLine, userTags []string, paymentMethod, region string) (*domain.CheckoutResult, error)
}

// CheckoutHandler handles HTTP requests for checkout pricing.
type CheckoutHandler struct {
	service       CheckoutCalculator
	defaultRegion string
	logger        *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc CheckoutCalculator, defaultRegion string, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:       svc,
		defaultRegion: defaultRegion,
		logger:        logger,
	}
}

// --- Request DTOs ---

// CheckoutRequest is the JSON request body for pricing a cart.
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	UserTags      []string              `json:"user_tags"`
	PaymentMethod string                `json:"payment_method" validate:"required"`
	Region        string                `json:"region"`
}

// CheckoutItemRequest represents a single cart line in the checkout request.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// --- Handlers ---

// Checkout handles POST /api/v1/checkout
// @Summary Price a cart
// @Description Prices the cart, applies the best eligible discount combination, and records the order.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body CheckoutRequest true "Cart contents and buyer context"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	region := req.Region
	if region == "" {
		region = h.defaultRegion
	}

	cart := make([]domain.CartLine, len(req.Items))
	for i, item := range req.Items {
		cart[i] = domain.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.service.CalculateFinalPrice(r.Context(), cart, req.UserTags, req.PaymentMethod, region)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
