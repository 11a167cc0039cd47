package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/request"
	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/response"
	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/service"
)

type SchoolService interface {
	CreateSchool(ctx context.Context, school domain.School) (domain.School, error)
	GetSchool(ctx context.Context, id string) (domain.School, error)
	ListSchools(ctx context.Context) ([]domain.School, error)
	UpdateSchool(ctx context.Context, school domain.School) (domain.School, error)
}

type SchoolHandler struct {
	svc SchoolService
}

func NewSchoolHandler(svc SchoolService) *SchoolHandler {
	return &SchoolHandler{
		svc: svc,
	}
}

func schoolFromRequest(req request.SchoolRequest) domain.School {
	return domain.School{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		OpeningHour:  req.OpeningHour,
		ClosingHour:  req.ClosingHour,
		Weekdays: domain.WeekdayFlags{
			Monday:    req.Monday,
			Tuesday:   req.Tuesday,
			Wednesday: req.Wednesday,
			Thursday:  req.Thursday,
			Friday:    req.Friday,
			Saturday:  req.Saturday,
			Sunday:    req.Sunday,
		},
	}
}

// HandleCreateSchool godoc
// @Summary      Create a school
// @Tags         schools
// @Produce      json
// @Param        request   body      request.SchoolRequest true "request body"
// @Success      201      {object}   domain.School
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /schools [post]
func (h *SchoolHandler) HandleCreateSchool(ctx *gin.Context) {
	var req request.SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	school, err := h.svc.CreateSchool(ctx.Request.Context(), schoolFromRequest(req))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateSchool -> h.svc.CreateSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, school)
}

// HandleGetSchool godoc
// @Summary      Get a school
// @Tags         schools
// @Produce      json
// @Param        schoolID   path       string true "school ID"
// @Success      200       {object}   domain.School
// @Failure      404       {object}   response.Err
// @Failure      500       {object}   response.Err
// @Security     BearerAuth
// @Router       /schools/{schoolID} [get]
func (h *SchoolHandler) HandleGetSchool(ctx *gin.Context) {
	school, err := h.svc.GetSchool(ctx.Request.Context(), ctx.Param("schoolID"))
	if err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetSchool -> h.svc.GetSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, school)
}

// HandleListSchools godoc
// @Summary      List schools
// @Tags         schools
// @Produce      json
// @Success      200 {array}  domain.School
// @Failure      500 {object} response.Err
// @Security     BearerAuth
// @Router       /schools [get]
func (h *SchoolHandler) HandleListSchools(ctx *gin.Context) {
	schools, err := h.svc.ListSchools(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListSchools -> h.svc.ListSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, schools)
}

// HandleUpdateSchool godoc
// @Summary      Update a school
// @Tags         schools
// @Produce      json
// @Param        schoolID   path      string true "school ID"
// @Param        request    body      request.SchoolRequest true "request body"
// @Success      200       {object}   domain.School
// @Failure      400       {object}   response.Err
// @Failure      500       {object}   response.Err
// @Security     BearerAuth
// @Router       /schools/{schoolID} [put]
func (h *SchoolHandler) HandleUpdateSchool(ctx *gin.Context) {
	var req request.SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	school := schoolFromRequest(req)
	school.ID = ctx.Param("schoolID")
	school.IsActive = true

	updated, err := h.svc.UpdateSchool(ctx.Request.Context(), school)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateSchool -> h.svc.UpdateSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
