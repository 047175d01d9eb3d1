package handler

import (
	"net/http"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/middleware"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/service"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/pagination"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyAuth := middleware.RequireRole(append([]string{model.RoleCustomer}, model.StaffRoles...)...)
	cashier := middleware.RequireRole(model.RoleCashier, model.RoleAdmin)

	payments := router.Group("/api/payments")
	{
		payments.GET("", anyAuth, h.ListPayments)
		payments.GET("/:id", anyAuth, h.GetPayment)
		payments.PUT("/:id/proof", middleware.RequireRole(model.RoleCustomer), h.SubmitProof)
		payments.PUT("/:id/verify", cashier, h.VerifyPayment)
		payments.PUT("/:id/reject", cashier, h.RejectPayment)
	}

	router.GET("/api/projects/:id/payments", anyAuth, h.ListProjectPayments)
}

// ListPayments lists payments visible to the caller
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        status      query     string  false  "Filter by status"
// @Param        project_id  query     string  false  "Filter by project"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=pagination.Page}
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.PaymentFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if raw := c.Query("project_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.ProjectID = &id
		}
	}

	payments, total, err := h.payments.ListPayments(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(payments, total, params)))
}

// GetPayment returns one payment
// @Summary      Get payment
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=model.Payment}
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// ListProjectPayments returns the three stage payments of a project
// @Summary      List project payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=[]model.Payment}
// @Failure      404  {object}  response.Response
// @Router       /api/projects/{id}/payments [get]
func (h *PaymentHandler) ListProjectPayments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.payments.ListProjectPayments(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payments))
}

// SubmitProof attaches the customer's proof of payment
// @Summary      Submit payment proof
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Payment ID"
// @Param        payload  body      service.SubmitProofRequest  true  "Proof Payload"
// @Success      200      {object}  response.Response{data=model.Payment}
// @Failure      409      {object}  response.Response
// @Router       /api/payments/{id}/proof [put]
func (h *PaymentHandler) SubmitProof(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.payments.SubmitPaymentProof(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// VerifyPayment settles a submitted payment and issues the receipt
// @Summary      Verify payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Payment ID"
// @Param        payload  body      service.VerifyPaymentRequest  true  "Verification Payload"
// @Success      200      {object}  response.Response{data=model.Payment}
// @Failure      409      {object}  response.Response
// @Router       /api/payments/{id}/verify [put]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.payments.VerifyPayment(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// RejectPayment turns down a submitted payment
// @Summary      Reject payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Payment ID"
// @Param        payload  body      object  true  "{ reason }"
// @Success      200      {object}  response.Response{data=model.Payment}
// @Failure      409      {object}  response.Response
// @Router       /api/payments/{id}/reject [put]
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.payments.RejectPayment(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}
