package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/request"
	"github.com/lunchpass/lunchpass-api/internal/api/handler/v1/response"
	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/service"
)

type ProductService interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
}

type ProductHandler struct {
	svc ProductService
}

func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{
		svc: svc,
	}
}

// HandleCreateProduct godoc
// @Summary      Create a product
// @Tags         products
// @Produce      json
// @Param        request   body      request.ProductRequest true "request body"
// @Success      201      {object}   domain.Product
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) HandleCreateProduct(ctx *gin.Context) {
	var req request.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), domain.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          price,
		ProductGroupID: req.ProductGroupID,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleGetProduct godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        productID   path       string true "product ID"
// @Success      200        {object}   domain.Product
// @Failure      404        {object}   response.Err
// @Failure      500        {object}   response.Err
// @Security     BearerAuth
// @Router       /products/{productID} [get]
func (h *ProductHandler) HandleGetProduct(ctx *gin.Context) {
	product, err := h.svc.GetProduct(ctx.Request.Context(), ctx.Param("productID"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleListProducts godoc
// @Summary      List the product catalog
// @Tags         products
// @Produce      json
// @Param        include_inactive   query     bool false "include inactive products"
// @Success      200 {array}  domain.Product
// @Failure      500 {object} response.Err
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) HandleListProducts(ctx *gin.Context) {
	activeOnly := ctx.Query("include_inactive") != "true"

	products, err := h.svc.ListProducts(ctx.Request.Context(), activeOnly)
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleUpdateProduct godoc
// @Summary      Update a product
// @Tags         products
// @Produce      json
// @Param        productID   path      string true "product ID"
// @Param        request     body      request.ProductRequest true "request body"
// @Success      200        {object}   domain.Product
// @Failure      400        {object}   response.Err
// @Failure      500        {object}   response.Err
// @Security     BearerAuth
// @Router       /products/{productID} [put]
func (h *ProductHandler) HandleUpdateProduct(ctx *gin.Context) {
	var req request.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product, err := h.svc.UpdateProduct(ctx.Request.Context(), domain.Product{
		ID:             ctx.Param("productID"),
		Name:           req.Name,
		Description:    req.Description,
		Price:          price,
		ProductGroupID: req.ProductGroupID,
		ImageURL:       req.ImageURL,
		IsActive:       isActive,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.UpdateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}
