package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lapster88/anchorpoint/internal/dto"
	"github.com/lapster88/anchorpoint/internal/service"
)

// GuestHandler is the guest portal surface. Every route authenticates with a
// raw access token; there are no sessions and no user accounts behind it.
type GuestHandler struct {
	tokens service.TokenService
}

func NewGuestHandler(tokens service.TokenService) *GuestHandler {
	return &GuestHandler{tokens: tokens}
}

func (h *GuestHandler) RegisterRoutes(e *echo.Echo) {
	guest := e.Group("/api/v1/guest")
	guest.GET("/:token", h.GetProfile)
	guest.PATCH("/:token", h.UpdateProfile)
}

func (h *GuestHandler) GetProfile(c echo.Context) error {
	token, err := h.tokens.Validate(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if token.GuestProfile == nil {
		return echo.NewHTTPError(http.StatusNotFound, "guest not found")
	}
	return c.JSON(http.StatusOK, dto.ToGuestProfileResponse(token.GuestProfile))
}

func (h *GuestHandler) UpdateProfile(c echo.Context) error {
	var req dto.GuestProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	guest, err := h.tokens.UpdateGuestProfile(c.Request().Context(), c.Param("token"), req.ToUpdate())
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToGuestProfileResponse(guest))
}
