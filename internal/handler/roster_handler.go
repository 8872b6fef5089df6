package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lapster88/anchorpoint/internal/dto"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/internal/service"
)

// RosterHandler covers staff membership lifecycle and guide calendars.
type RosterHandler struct {
	memberships      service.MembershipService
	availabilityRepo repository.AvailabilityRepository
}

func NewRosterHandler(memberships service.MembershipService, availabilityRepo repository.AvailabilityRepository) *RosterHandler {
	return &RosterHandler{memberships: memberships, availabilityRepo: availabilityRepo}
}

func (h *RosterHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/memberships/:id/deactivate", h.Deactivate)
	e.POST("/api/v1/memberships/:id/activate", h.Activate)
	e.GET("/api/v1/guides/:id/availability", h.ListAvailability)
}

func (h *RosterHandler) Deactivate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid membership id")
	}

	membership, err := h.memberships.Deactivate(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrLastOwner):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}

func (h *RosterHandler) Activate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid membership id")
	}

	membership, err := h.memberships.Activate(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}

func (h *RosterHandler) ListAvailability(c echo.Context) error {
	guideID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guide id")
	}

	blocks, err := h.availabilityRepo.ListByGuide(c.Request().Context(), guideID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.AvailabilityResponse, len(blocks))
	for i := range blocks {
		resp[i] = dto.ToAvailabilityResponse(&blocks[i])
	}
	return c.JSON(http.StatusOK, resp)
}
