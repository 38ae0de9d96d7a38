package handlers

import (
	"net/http"
	"strconv"

	"digivera_backend/internal/middleware"
	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/internal/services"
	"digivera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	*BaseHandler
	alertService services.AlertService
}

func NewAlertHandler(base *BaseHandler, alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		BaseHandler: base,
		alertService: alertService,
	}
}

func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	alerts := rg.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.GET("", h.List)
		alerts.PATCH("/:id/read", h.MarkRead)
	}
}

func (h *AlertHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	filter, err := parseAlertFilter(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.alertService.List(userID, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Alerts retrieved", response)
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	alertID := c.Param("id")
	if alertID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing alert id"))
		return
	}

	alert, err := h.alertService.MarkRead(userID, alertID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Alert marked as read", alert)
}

func parseAlertFilter(c *gin.Context) (repositories.AlertFilter, error) {
	var filter repositories.AlertFilter

	if raw := c.Query("isRead"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewBadRequestError("Invalid isRead value: must be true or false")
		}
		filter.IsRead = &isRead
	}

	if raw := c.Query("severity"); raw != "" {
		severity := models.AlertSeverity(raw)
		switch severity {
		case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
			filter.Severity = severity
		default:
			return filter, apperrors.NewBadRequestError("Invalid severity value: must be low, medium or high")
		}
	}

	return filter, nil
}
