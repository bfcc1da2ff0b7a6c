package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stockledger/internal/auth"
	"stockledger/internal/errors"
	"stockledger/internal/service"
)

// SessionContextKey is where the access gate stores the validated session.
const SessionContextKey = "session"

// InventoryHandler handles stock ledger endpoints.
type InventoryHandler struct {
	inventoryService service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// AddProductRequest represents a product creation request. Quantity arrives
// as a string because form-originated input may be empty or non-numeric;
// both default to zero rather than failing the request.
type AddProductRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// List godoc
// @Summary List all products in creation order
// @Tags inventory
// @Produce json
// @Success 200 {array} model.Product
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *InventoryHandler) List(c echo.Context) error {
	products, err := h.inventoryService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, products)
}

// Add godoc
// @Summary Add a product
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body AddProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [post]
func (h *InventoryHandler) Add(c echo.Context) error {
	var req AddProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	quantity, err := strconv.Atoi(req.Quantity)
	if err != nil {
		quantity = 0
	}

	product, err := h.inventoryService.Add(c.Request().Context(), req.Name, quantity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, product)
}

// Increment godoc
// @Summary Increment a product's quantity by one
// @Tags inventory
// @Produce json
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id}/increment [post]
func (h *InventoryHandler) Increment(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}
	if err := h.inventoryService.Increment(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Decrement godoc
// @Summary Decrement a product's quantity by one, flooring at zero
// @Tags inventory
// @Produce json
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id}/decrement [post]
func (h *InventoryHandler) Decrement(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}
	if err := h.inventoryService.Decrement(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a product; deleting an absent id is a no-op
// @Tags inventory
// @Produce json
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}
	if err := h.inventoryService.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Return the authenticated session's subject
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *InventoryHandler) Me(c echo.Context) error {
	session, ok := c.Get(SessionContextKey).(*auth.Session)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":    session.UserID,
		"email":      session.Email,
		"expires_at": session.ExpiresAt,
	})
}

func parseProductID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid product ID",
			Code:  "INVALID_PRODUCT_ID",
		})
	}
	return uint(id), nil
}
