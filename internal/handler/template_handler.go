package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lapster88/anchorpoint/internal/dto"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/service"
)

type TemplateHandler struct {
	templates service.TemplateService
}

func NewTemplateHandler(templates service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) RegisterRoutes(e *echo.Echo) {
	templates := e.Group("/api/v1/trip-templates")
	templates.POST("", h.Create)
	templates.GET("", h.List)
	templates.GET("/:id", h.Get)
	templates.PUT("/:id", h.Update)
	templates.POST("/:id/duplicate", h.Duplicate)
}

func (h *TemplateHandler) Create(c echo.Context) error {
	var req dto.TemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.GuideServiceID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "guide_service_id is required")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	template, err := h.templates.Create(c.Request().Context(), req.ToModel(), req.ToTiers())
	if err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}

	var req dto.TemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	template, err := h.templates.Update(c.Request().Context(), id, req.ToModel(), req.ToTiers())
	if err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

func (h *TemplateHandler) Duplicate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}

	template, err := h.templates.Duplicate(c.Request().Context(), id)
	if err != nil {
		return templateError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid template id")
	}

	template, err := h.templates.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip template not found")
	}
	return c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

func (h *TemplateHandler) List(c echo.Context) error {
	serviceID, err := strconv.ParseUint(c.QueryParam("guide_service_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "guide_service_id is required")
	}

	templates, err := h.templates.ListByService(c.Request().Context(), uint(serviceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.TemplateResponse, len(templates))
	for i := range templates {
		resp[i] = dto.ToTemplateResponse(&templates[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func templateError(err error) error {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTemplateTitleTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, pricing.ErrNoTiers), errors.Is(err, service.ErrInvalidTiming):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		// Tier and deposit validation produce descriptive one-off errors.
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
