package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// /cartsのHTTP。カートは匿名なので認証は通さない。
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

// /carts 配下を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/carts")

	g.POST("", h.createCart)
	g.GET("/:cartId", h.getCart)
	g.DELETE("/:cartId", h.deleteCart)
	g.POST("/:cartId/items", h.addItem)
	g.PATCH("/:cartId/items/:productId", h.updateItem)
	g.DELETE("/:cartId/items/:productId", h.removeItem)
}

func (h *CartHandler) createCart(c echo.Context) error {
	out, err := h.uc.CreateCart(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) getCart(c echo.Context) error {
	cartID, ok := parseCartID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), cartID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteCart(c echo.Context) error {
	cartID, ok := parseCartID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	if err := h.uc.DeleteCart(c.Request().Context(), cartID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) addItem(c echo.Context) error {
	cartID, ok := parseCartID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), cartID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	cartID, ok := parseCartID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), cartID, productID, usecase.UpdateCartItemInput{
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	cartID, ok := parseCartID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	if err := h.uc.RemoveItem(c.Request().Context(), cartID, productID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UUIDでないIDのカートは存在しようがないので404扱いにする
func parseCartID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("cartId"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
