package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/order-system/internal/api/metrics"
	"github.com/marketbay/order-system/internal/api/response"
	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /v1/orders.
//
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order line items"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{
			Name:        it.Name,
			Quantity:    it.Amount,
			Description: it.Description,
			UnitPrice:   it.Price,
		})
	}

	order, err := h.orders.Create(c.Request().Context(), callerID, items)
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return response.OK(c, http.StatusCreated, order)
}

// Get handles GET /v1/orders/:order_id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  response.Envelope
// @Failure      403       {object}  response.Envelope
// @Failure      404       {object}  response.Envelope
// @Router       /v1/orders/{order_id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.Request().Context(), c.Param("order_id"), callerID)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, order)
}

// List handles GET /v1/orders, always scoped to the caller's own orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page           query     int     false  "Page number"
// @Param        page_size      query     int     false  "Items per page (max 100)"
// @Param        status_filter  query     string  false  "Exact status filter"
// @Param        sort_by        query     string  false  "created_at | updated_at | total_amount"
// @Param        sort_order     query     string  false  "asc | desc"
// @Success      200            {object}  response.Envelope
// @Failure      401            {object}  response.Envelope
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	page, err := h.orders.List(c.Request().Context(), callerID, ports.ListOrdersInput{
		Status:    c.QueryParam("status_filter"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 10),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, page)
}

// UpdateStatus handles PUT /v1/orders/:order_id/status.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string               true  "Order id"
// @Param        body      body      updateStatusRequest  true  "Target status"
// @Success      200       {object}  response.Envelope
// @Failure      403       {object}  response.Envelope
// @Failure      404       {object}  response.Envelope
// @Failure      422       {object}  response.Envelope
// @Router       /v1/orders/{order_id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("order_id"), callerID, domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	return response.OK(c, http.StatusOK, order)
}

// Cancel handles DELETE /v1/orders/:order_id. Cancellation is a status
// change, never a row removal.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  response.Envelope
// @Failure      403       {object}  response.Envelope
// @Failure      404       {object}  response.Envelope
// @Failure      422       {object}  response.Envelope
// @Router       /v1/orders/{order_id} [delete]
func (h *OrderHandler) Cancel(c echo.Context) error {
	callerID, err := subjectID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Cancel(c.Request().Context(), c.Param("order_id"), callerID)
	if err != nil {
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	return response.OK(c, http.StatusOK, order)
}
