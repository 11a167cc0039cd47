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

type KidService interface {
	CreateKid(ctx context.Context, actor domain.User, kid domain.Kid) (domain.Kid, error)
	GetKid(ctx context.Context, actor domain.User, id string) (domain.KidWithSchools, error)
	GetKidByRFIDToken(ctx context.Context, token string) (domain.Kid, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Kid, error)
	UpdateKid(ctx context.Context, actor domain.User, kid domain.Kid) (domain.Kid, error)
	AddSchool(ctx context.Context, kidID, schoolID string) error
}

type KidLedgerService interface {
	CurrentSpending(ctx context.Context, kidID string, at time.Time) (domain.MonthlySpending, error)
	History(ctx context.Context, kidID string) ([]domain.MonthlySpending, error)
}

type KidHandler struct {
	svc    KidService
	ledger KidLedgerService
}

func NewKidHandler(svc KidService, ledger KidLedgerService) *KidHandler {
	return &KidHandler{
		svc:    svc,
		ledger: ledger,
	}
}

// HandleCreateKid godoc
// @Summary      Register a kid
// @Tags         kids
// @Produce      json
// @Param        request   body      request.CreateKidRequest true "request body"
// @Success      201      {object}   domain.Kid
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /kids [post]
func (h *KidHandler) HandleCreateKid(ctx *gin.Context) {
	var req request.CreateKidRequest
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

	limit, err := parseAmount(req.MonthlySpendingLimit)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	kid, err := h.svc.CreateKid(ctx.Request.Context(), actor, domain.Kid{
		Name:                 req.Name,
		ParentID:             req.ParentID,
		RFIDTokens:           req.RFIDTokens,
		MonthlySpendingLimit: limit,
	})
	if err != nil {
		if errors.Is(err, service.ErrRFIDTokenInUse) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateKid -> h.svc.CreateKid -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if req.SchoolID != "" {
		if err = h.svc.AddSchool(ctx.Request.Context(), kid.ID, req.SchoolID); err != nil {
			err = fmt.Errorf("v1.HandleCreateKid -> h.svc.AddSchool -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
	}

	ctx.JSON(http.StatusCreated, kid)
}

// HandleGetKid godoc
// @Summary      Get a kid with their schools
// @Tags         kids
// @Produce      json
// @Param        kidID   path       string true "kid ID"
// @Success      200    {object}   domain.KidWithSchools
// @Failure      403    {object}   response.Err
// @Failure      404    {object}   response.Err
// @Failure      500    {object}   response.Err
// @Security     BearerAuth
// @Router       /kids/{kidID} [get]
func (h *KidHandler) HandleGetKid(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	kid, err := h.svc.GetKid(ctx.Request.Context(), actor, ctx.Param("kidID"))
	if err != nil {
		h.renderKidErr(ctx, "v1.HandleGetKid -> h.svc.GetKid", err)
		return
	}

	ctx.JSON(http.StatusOK, kid)
}

// HandleListKids godoc
// @Summary      List the caller's kids
// @Tags         kids
// @Produce      json
// @Success      200 {array}  domain.Kid
// @Failure      500 {object} response.Err
// @Security     BearerAuth
// @Router       /kids [get]
func (h *KidHandler) HandleListKids(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	kids, err := h.svc.ListByParent(ctx.Request.Context(), actor.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListKids -> h.svc.ListByParent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, kids)
}

// HandleUpdateKid godoc
// @Summary      Update a kid
// @Tags         kids
// @Produce      json
// @Param        kidID     path      string true "kid ID"
// @Param        request   body      request.UpdateKidRequest true "request body"
// @Success      200      {object}   domain.Kid
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /kids/{kidID} [put]
func (h *KidHandler) HandleUpdateKid(ctx *gin.Context) {
	var req request.UpdateKidRequest
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

	limit, err := parseAmount(req.MonthlySpendingLimit)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	kid, err := h.svc.UpdateKid(ctx.Request.Context(), actor, domain.Kid{
		ID:                   ctx.Param("kidID"),
		Name:                 req.Name,
		RFIDTokens:           req.RFIDTokens,
		MonthlySpendingLimit: limit,
		IsActive:             isActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrRFIDTokenInUse) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}
		h.renderKidErr(ctx, "v1.HandleUpdateKid -> h.svc.UpdateKid", err)
		return
	}

	ctx.JSON(http.StatusOK, kid)
}

// HandleGetKidSpending godoc
// @Summary      Get a kid's spending for the current month
// @Tags         kids
// @Produce      json
// @Param        kidID   path       string true "kid ID"
// @Success      200    {object}   response.SpendingResponse
// @Failure      403    {object}   response.Err
// @Failure      404    {object}   response.Err
// @Failure      500    {object}   response.Err
// @Security     BearerAuth
// @Router       /kids/{kidID}/spending [get]
func (h *KidHandler) HandleGetKidSpending(ctx *gin.Context) {
	actor, err := getUserFromContext(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	kid, err := h.svc.GetKid(ctx.Request.Context(), actor, ctx.Param("kidID"))
	if err != nil {
		h.renderKidErr(ctx, "v1.HandleGetKidSpending -> h.svc.GetKid", err)
		return
	}

	spending, err := h.ledger.CurrentSpending(ctx.Request.Context(), kid.ID, time.Now())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetKidSpending -> h.ledger.CurrentSpending -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	history, err := h.ledger.History(ctx.Request.Context(), kid.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetKidSpending -> h.ledger.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	resp := response.SpendingResponse{
		KidID:   kid.ID,
		Year:    spending.Year,
		Month:   spending.Month,
		Spent:   spending.Amount,
		History: history,
	}
	if kid.HasSpendingLimit() {
		limit := kid.MonthlySpendingLimit
		remaining := limit.Sub(spending.Amount)
		resp.Limit = &limit
		resp.RemainingBudget = &remaining
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleGetKidByRFIDToken godoc
// @Summary      Resolve a card scan to a kid
// @Tags         kids
// @Produce      json
// @Param        token   path       string true "RFID token"
// @Success      200    {object}   domain.Kid
// @Failure      404    {object}   response.Err
// @Failure      500    {object}   response.Err
// @Security     BearerAuth
// @Router       /rfid/{token} [get]
func (h *KidHandler) HandleGetKidByRFIDToken(ctx *gin.Context) {
	kid, err := h.svc.GetKidByRFIDToken(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrKidNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetKidByRFIDToken -> h.svc.GetKidByRFIDToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, kid)
}

func (h *KidHandler) renderKidErr(ctx *gin.Context, prefix string, err error) {
	switch {
	case errors.Is(err, service.ErrKidNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrNotKidParent):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("%s -> %w", prefix, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// parseAmount converts an optional decimal string; empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(s)
}
