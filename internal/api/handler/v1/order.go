package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/request"
	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/response"
	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/metrics"
	"github.com/lunchpass/lunchpass-api/internal/service"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, actor domain.User, kidID string, inputs []service.OrderLineInput) (domain.OrderWithLines, error)
	GetOrder(ctx context.Context, actor domain.User, orderID string) (domain.OrderWithLines, error)
	ListByParent(ctx context.Context, parentID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error)
	ListByKid(ctx context.Context, actor domain.User, kidID string, status domain.OrderStatus, limit, offset int) ([]domain.OrderWithLines, int64, error)
	CancelOrder(ctx context.Context, actor domain.User, orderID string) error
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{
		svc: svc,
	}
}

// HandlePlaceOrder godoc
// @Summary      Place an order for a kid
// @Tags         orders
// @Produce      json
// @Param        request   body      request.PlaceOrderRequest true "request body"
// @Success      201      {object}   domain.OrderWithLines
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) HandlePlaceOrder(ctx *gin.Context) {
	start := time.Now()

	var req request.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	inputs := make([]service.OrderLineInput, len(req.Lines))
	for i, line := range req.Lines {
		inputs[i] = service.OrderLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	order, err := h.svc.PlaceOrder(ctx.Request.Context(), actor, req.KidID, inputs)
	if err != nil {
		h.renderPlaceOrderErr(ctx, err)
		metrics.RecordPlaceOrderDuration("failure", time.Since(start).Seconds())
		return
	}

	metrics.RecordPlaceOrderDuration("success", time.Since(start).Seconds())
	ctx.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) renderPlaceOrderErr(ctx *gin.Context, err error) {
	var limitErr *service.SpendingLimitError

	switch {
	case errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrProductInactive):
		metrics.RecordOrderRejected("invalid_cart")
		response.RenderErr(ctx, response.ErrBadRequest(err))

	case errors.Is(err, service.ErrKidNotFound),
		errors.Is(err, service.ErrProductNotFound):
		metrics.RecordOrderRejected("not_found")
		response.RenderErr(ctx, response.ErrNotFound(err))

	case errors.Is(err, service.ErrKidInactive),
		errors.Is(err, service.ErrNotKidParent):
		metrics.RecordOrderRejected("forbidden")
		response.RenderErr(ctx, response.ErrPermissionDenied(err))

	case errors.Is(err, service.ErrOrderingClosed):
		metrics.RecordOrderRejected("ordering_closed")
		response.RenderErr(ctx, response.ErrUnprocessable(err))

	case errors.As(err, &limitErr):
		metrics.RecordOrderRejected("spending_limit")
		response.RenderErr(ctx, response.ErrUnprocessable(limitErr))

	default:
		err = fmt.Errorf("v1.HandlePlaceOrder -> h.svc.PlaceOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleGetOrder godoc
// @Summary      Get one order with its lines
// @Tags         orders
// @Produce      json
// @Param        orderID   path       string true "order ID"
// @Success      200      {object}   domain.OrderWithLines
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /orders/{orderID} [get]
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), actor, ctx.Param("orderID"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}
		if errors.Is(err, service.ErrNotOrderOwner) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleListOrders godoc
// @Summary      List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Param        status   query      string false "filter by status"
// @Param        limit    query      int    false "page size"
// @Param        offset   query      int    false "page offset"
// @Success      200      {object}   response.ListOrdersResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	limit, offset := getPagination(ctx)
	status := domain.OrderStatus(ctx.Query("status"))

	orders, total, err := h.svc.ListByParent(ctx.Request.Context(), actor.ID, status, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListByParent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ListOrdersResponse{
		Orders: orders,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleListKidOrders godoc
// @Summary      List a kid's orders, newest first
// @Tags         orders
// @Produce      json
// @Param        kidID    path       string true  "kid ID"
// @Param        status   query      string false "filter by status"
// @Param        limit    query      int    false "page size"
// @Param        offset   query      int    false "page offset"
// @Success      200      {object}   response.ListOrdersResponse
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /kids/{kidID}/orders [get]
func (h *OrderHandler) HandleListKidOrders(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	limit, offset := getPagination(ctx)
	status := domain.OrderStatus(ctx.Query("status"))

	orders, total, err := h.svc.ListByKid(ctx.Request.Context(), actor, ctx.Param("kidID"), status, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrKidNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrKidInactive), errors.Is(err, service.ErrNotKidParent):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleListKidOrders -> h.svc.ListByKid -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.ListOrdersResponse{
		Orders: orders,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleCancelOrder godoc
// @Summary      Cancel an order
// @Description  Cancels the order. The monthly ledger is not refunded.
// @Tags         orders
// @Produce      json
// @Param        orderID   path       string true "order ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /orders/{orderID}/cancel [post]
func (h *OrderHandler) HandleCancelOrder(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	err = h.svc.CancelOrder(ctx.Request.Context(), actor, ctx.Param("orderID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrNotOrderOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrOrderAlreadyCanceled):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCancelOrder -> h.svc.CancelOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateOrderStatus godoc
// @Summary      Update an order's status
// @Tags         orders
// @Produce      json
// @Param        orderID   path      string true "order ID"
// @Param        request   body      request.UpdateOrderStatusRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /orders/{orderID}/status [put]
func (h *OrderHandler) HandleUpdateOrderStatus(ctx *gin.Context) {
	var req request.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.UpdateStatus(ctx.Request.Context(), ctx.Param("orderID"), domain.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateOrderStatus -> h.svc.UpdateStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
