package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/watergb/billing-system/internal/core/ports"
)

// CatalogHandler exposes the neighborhood and square endpoints.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type createNeighborhoodRequest struct {
	Name string `json:"name" validate:"required"`
}

type createSquareRequest struct {
	Name           string `json:"name" validate:"required"`
	NeighborhoodID string `json:"neighborhood_id" validate:"required"`
}

// ListNeighborhoods handles GET /v1/neighborhoods.
//
// @Summary      List neighborhoods
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Neighborhood
// @Router       /v1/neighborhoods [get]
func (h *CatalogHandler) ListNeighborhoods(c echo.Context) error {
	neighborhoods, err := h.catalog.ListNeighborhoods(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, neighborhoods)
}

// CreateNeighborhood handles POST /v1/neighborhoods (admin only).
//
// @Summary      Create a neighborhood
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNeighborhoodRequest  true  "Neighborhood"
// @Success      201   {object}  domain.Neighborhood
// @Failure      409   {object}  map[string]string
// @Router       /v1/neighborhoods [post]
func (h *CatalogHandler) CreateNeighborhood(c echo.Context) error {
	var req createNeighborhoodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	n, err := h.catalog.CreateNeighborhood(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

// ListSquares handles GET /v1/neighborhoods/:id/squares.
//
// @Summary      List squares of a neighborhood
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string  true  "Neighborhood id"
// @Success      200  {array}  domain.Square
// @Failure      404  {object} map[string]string
// @Router       /v1/neighborhoods/{id}/squares [get]
func (h *CatalogHandler) ListSquares(c echo.Context) error {
	squares, err := h.catalog.ListSquares(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, squares)
}

// CreateSquare handles POST /v1/squares (admin only).
//
// @Summary      Create a square
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSquareRequest  true  "Square"
// @Success      201   {object}  domain.Square
// @Failure      404   {object}  map[string]string
// @Router       /v1/squares [post]
func (h *CatalogHandler) CreateSquare(c echo.Context) error {
	var req createSquareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sq, err := h.catalog.CreateSquare(c.Request().Context(), req.Name, req.NeighborhoodID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sq)
}
