package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/request"
	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/response"
	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/service"
)

type DiscountService interface {
	CreateDiscount(ctx context.Context, discount domain.Discount) (domain.Discount, error)
	GetDiscount(ctx context.Context, id string) (domain.Discount, error)
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	UpdateDiscount(ctx context.Context, discount domain.Discount) (domain.Discount, error)
	DeleteDiscount(ctx context.Context, id string) error
}

type DiscountHandler struct {
	svc DiscountService
}

func NewDiscountHandler(svc DiscountService) *DiscountHandler {
	return &DiscountHandler{
		svc: svc,
	}
}

func discountFromRequest(req request.DiscountRequest) (domain.Discount, error) {
	value, err := decimal.NewFromString(req.DiscountValue)
	if err != nil {
		return domain.Discount{}, err
	}

	minPurchase := decimal.Zero
	if req.MinimumPurchaseAmount != "" {
		minPurchase, err = decimal.NewFromString(req.MinimumPurchaseAmount)
		if err != nil {
			return domain.Discount{}, err
		}
	}

	var startDate, endDate *time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return domain.Discount{}, err
		}
		startDate = &parsed
	}
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return domain.Discount{}, err
		}
		endDate = &parsed
	}

	var effect domain.DiscountEffect
	switch req.DiscountType {
	case "percentage":
		effect = domain.PercentageOff{Percent: value}
	case "fixed_amount":
		effect = domain.FixedAmountOff{Off: value}
	case "buy_x_get_y":
		effect = domain.BuyXGetY{BuyQuantity: req.BuyQuantity, GetQuantity: req.GetQuantity}
	default:
		effect = domain.Bundle{Value: value}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return domain.Discount{
		Name:        req.Name,
		Description: req.Description,
		TargetType:  domain.DiscountTarget(req.TargetType),
		TargetID:    req.TargetID,
		Eligibility: domain.Eligibility{
			IsActive:  isActive,
			StartDate: startDate,
			EndDate:   endDate,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Monday:    req.Monday,
			Tuesday:   req.Tuesday,
			Wednesday: req.Wednesday,
			Thursday:  req.Thursday,
			Friday:    req.Friday,
			Saturday:  req.Saturday,
			Sunday:    req.Sunday,
		},
		Value:                 value,
		Priority:              req.Priority,
		MinimumPurchaseAmount: minPurchase,
		MinimumQuantity:       req.MinimumQuantity,
		IsStackable:           req.IsStackable,
		Effect:                effect,
	}, nil
}

// HandleCreateDiscount godoc
// @Summary      Create a discount
// @Tags         discounts
// @Produce      json
// @Param        request   body      request.DiscountRequest true "request body"
// @Success      201      {object}   domain.Discount
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /discounts [post]
func (h *DiscountHandler) HandleCreateDiscount(ctx *gin.Context) {
	var req request.DiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	discount, err := discountFromRequest(req)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateDiscount(ctx.Request.Context(), discount)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateDiscount -> h.svc.CreateDiscount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetDiscount godoc
// @Summary      Get a discount
// @Tags         discounts
// @Produce      json
// @Param        discountID   path       string true "discount ID"
// @Success      200         {object}   domain.Discount
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Security     BearerAuth
// @Router       /discounts/{discountID} [get]
func (h *DiscountHandler) HandleGetDiscount(ctx *gin.Context) {
	discount, err := h.svc.GetDiscount(ctx.Request.Context(), ctx.Param("discountID"))
	if err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetDiscount -> h.svc.GetDiscount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, discount)
}

// HandleListDiscounts godoc
// @Summary      List discounts
// @Tags         discounts
// @Produce      json
// @Success      200 {array}  domain.Discount
// @Failure      500 {object} response.Err
// @Security     BearerAuth
// @Router       /discounts [get]
func (h *DiscountHandler) HandleListDiscounts(ctx *gin.Context) {
	discounts, err := h.svc.ListDiscounts(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListDiscounts -> h.svc.ListDiscounts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, discounts)
}

// HandleUpdateDiscount godoc
// @Summary      Update a discount
// @Tags         discounts
// @Produce      json
// @Param        discountID   path      string true "discount ID"
// @Param        request      body      request.DiscountRequest true "request body"
// @Success      200         {object}   domain.Discount
// @Failure      400         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Security     BearerAuth
// @Router       /discounts/{discountID} [put]
func (h *DiscountHandler) HandleUpdateDiscount(ctx *gin.Context) {
	var req request.DiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	discount, err := discountFromRequest(req)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	discount.ID = ctx.Param("discountID")

	updated, err := h.svc.UpdateDiscount(ctx.Request.Context(), discount)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateDiscount -> h.svc.UpdateDiscount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteDiscount godoc
// @Summary      Delete a discount
// @Tags         discounts
// @Produce      json
// @Param        discountID   path      string true "discount ID"
// @Success      204
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Security     BearerAuth
// @Router       /discounts/{discountID} [delete]
func (h *DiscountHandler) HandleDeleteDiscount(ctx *gin.Context) {
	if err := h.svc.DeleteDiscount(ctx.Request.Context(), ctx.Param("discountID")); err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteDiscount -> h.svc.DeleteDiscount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
