package handler

import (
	"net/http"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/middleware"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/service"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/pagination"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	audit service.AuditService
}

func NewAuditHandler(audit service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/activity-logs", middleware.RequireRole(model.RoleAdmin), h.ListActivityLogs)
}

// ListActivityLogs returns the audit trail, optionally scoped to one resource
// @Summary      List activity logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        resource_type  query     string  false  "Resource type (appointment, project, payment, user)"
// @Param        resource_id    query     string  false  "Resource ID"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Items per page (default 20)"
// @Success      200            {object}  response.Response{data=pagination.Page}
// @Failure      500            {object}  response.Response
// @Router       /api/activity-logs [get]
func (h *AuditHandler) ListActivityLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.audit.GetActivityLogs(c.Request.Context(),
		c.Query("resource_type"), c.Query("resource_id"), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(logs, total, params)))
}
