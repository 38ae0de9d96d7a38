package handlers

import (
	"net/http"

	"digivera_backend/internal/middleware"
	"digivera_backend/internal/services"
	"digivera_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	*BaseHandler
	scanService services.ScanService
}

func NewScanHandler(base *BaseHandler, scanService services.ScanService) *ScanHandler {
	return &ScanHandler{
		BaseHandler: base,
		scanService: scanService,
	}
}

func (h *ScanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	scan := rg.Group("/scan")
	scan.Use(middleware.AuthMiddleware())
	{
		scan.POST("", h.RunScan)
		scan.GET("/latest", h.GetLatest)
		scan.GET("/history", h.GetHistory)
	}
}

func (h *ScanHandler) RunScan(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RunScanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.scanService.RunManualScan(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusCreated, "Scan completed", result)
}

func (h *ScanHandler) GetLatest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	scan, err := h.scanService.GetLatestScan(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Latest scan retrieved", scan)
}

func (h *ScanHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	history, err := h.scanService.GetHistory(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Scan history retrieved", history)
}
