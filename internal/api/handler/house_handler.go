package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

// HouseHandler exposes the house CRUD endpoints.
type HouseHandler struct {
	catalog ports.CatalogService
}

func NewHouseHandler(catalog ports.CatalogService) *HouseHandler {
	return &HouseHandler{catalog: catalog}
}

type createHouseRequest struct {
	HouseNumber    string `json:"house_number" validate:"required"`
	OwnerName      string `json:"owner_name" validate:"required"`
	OwnerPhone     string `json:"owner_phone"`
	IsOccupied     *bool  `json:"is_occupied"`
	HasPaid        *bool  `json:"has_paid"`
	PaymentType    string `json:"payment_type" validate:"omitempty,oneof=SMALL_METER MEDIUM_METER LARGE_METER"`
	RequiredAmount *int64 `json:"required_amount" validate:"omitempty,gte=0"`
	ReceiptImage   string `json:"receipt_image"`
	SquareID       string `json:"square_id" validate:"required"`
}

type updateHouseRequest struct {
	HouseNumber    string `json:"house_number" validate:"required"`
	OwnerName      string `json:"owner_name" validate:"required"`
	OwnerPhone     string `json:"owner_phone"`
	IsOccupied     bool   `json:"is_occupied"`
	HasPaid        bool   `json:"has_paid"`
	PaymentType    string `json:"payment_type" validate:"required,oneof=SMALL_METER MEDIUM_METER LARGE_METER"`
	RequiredAmount int64  `json:"required_amount" validate:"gte=0"`
	ReceiptImage   string `json:"receipt_image"`
}

// ListBySquare handles GET /v1/squares/:id/houses.
//
// @Summary      List houses of a square
// @Tags         houses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string  true  "Square id"
// @Success      200  {array}  domain.House
// @Failure      404  {object} map[string]string
// @Router       /v1/squares/{id}/houses [get]
func (h *HouseHandler) ListBySquare(c echo.Context) error {
	houses, err := h.catalog.ListHouses(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, houses)
}

// Create handles POST /v1/houses (admin only).
//
// @Summary      Create a house
// @Tags         houses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHouseRequest  true  "House"
// @Success      201   {object}  domain.House
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/houses [post]
func (h *HouseHandler) Create(c echo.Context) error {
	var req createHouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	house, err := h.catalog.CreateHouse(c.Request().Context(), ports.CreateHouseInput{
		HouseNumber:    req.HouseNumber,
		OwnerName:      req.OwnerName,
		OwnerPhone:     req.OwnerPhone,
		IsOccupied:     req.IsOccupied,
		HasPaid:        req.HasPaid,
		PaymentType:    domain.PaymentType(req.PaymentType),
		RequiredAmount: req.RequiredAmount,
		ReceiptImage:   req.ReceiptImage,
		SquareID:       req.SquareID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, house)
}

// Update handles PUT /v1/houses/:id (admin only).
//
// @Summary      Update a house
// @Tags         houses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "House id"
// @Param        body  body      updateHouseRequest  true  "House"
// @Success      200   {object}  domain.House
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/houses/{id} [put]
func (h *HouseHandler) Update(c echo.Context) error {
	var req updateHouseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	house, err := h.catalog.UpdateHouse(c.Request().Context(), c.Param("id"), ports.UpdateHouseInput{
		HouseNumber:    req.HouseNumber,
		OwnerName:      req.OwnerName,
		OwnerPhone:     req.OwnerPhone,
		IsOccupied:     req.IsOccupied,
		HasPaid:        req.HasPaid,
		PaymentType:    domain.PaymentType(req.PaymentType),
		RequiredAmount: req.RequiredAmount,
		ReceiptImage:   req.ReceiptImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, house)
}

// Delete handles DELETE /v1/houses/:id (admin only).
//
// @Summary      Delete a house
// @Tags         houses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "House id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/houses/{id} [delete]
func (h *HouseHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteHouse(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "house deleted"})
}
