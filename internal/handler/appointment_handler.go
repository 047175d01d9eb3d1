package handler

import (
	"net/http"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/middleware"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/service"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/pagination"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AppointmentHandler struct {
	scheduling service.SchedulingService
}

func NewAppointmentHandler(scheduling service.SchedulingService) *AppointmentHandler {
	return &AppointmentHandler{scheduling: scheduling}
}

func (h *AppointmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyAuth := middleware.RequireRole(append([]string{model.RoleCustomer}, model.StaffRoles...)...)
	staff := middleware.RequireRole(model.StaffRoles...)

	appointments := router.Group("/api/appointments")
	{
		appointments.POST("", middleware.RequireRole(model.RoleCustomer), h.BookAppointment)
		appointments.GET("", anyAuth, h.ListAppointments)
		appointments.GET("/slots", anyAuth, h.AvailableSlots)
		appointments.GET("/:id", anyAuth, h.GetAppointment)
		appointments.PUT("/:id/assign", middleware.RequireRole(model.RoleAppointmentAgent), h.AssignSalesStaff)
		appointments.PUT("/:id/cancel", anyAuth, h.CancelAppointment)
		appointments.PUT("/:id/complete", middleware.RequireRole(model.RoleSalesStaff), h.CompleteAppointment)
		appointments.PUT("/:id/no-show", staff, h.MarkNoShow)
		appointments.PUT("/:id/status", staff, h.UpdateStatus)
		appointments.PUT("/:id/travel-fee", middleware.RequireRole(model.RoleCashier, model.RoleAdmin), h.SetTravelFee)
		appointments.PUT("/:id/travel-fee/collect", middleware.RequireRole(model.RoleSalesStaff), h.CollectTravelFee)
		appointments.PUT("/:id/travel-fee/verify", middleware.RequireRole(model.RoleCashier), h.VerifyTravelFee)
	}
}

// BookAppointment books a consultation for the authenticated customer
// @Summary      Book appointment
// @Description  Books an office consultation or ocular visit
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BookAppointmentRequest  true  "Booking Payload"
// @Success      201      {object}  response.Response{data=model.Appointment}
// @Failure      400      {object}  response.Response
// @Router       /api/appointments [post]
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req service.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	appt, err := h.scheduling.BookAppointment(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, appt))
}

// ListAppointments lists appointments visible to the caller
// @Summary      List appointments
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=pagination.Page}
// @Router       /api/appointments [get]
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.AppointmentFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if raw := c.Query("staff_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.StaffID = &id
		}
	}

	appts, total, err := h.scheduling.ListAppointments(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(appts, total, params)))
}

// AvailableSlots returns per-staff slot availability for a date
// @Summary      Available slots
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        date      query     string  true   "Date (YYYY-MM-DD)"
// @Param        staff_id  query     string  false  "Restrict to one staff member"
// @Success      200       {object}  response.Response{data=[]service.StaffSlots}
// @Failure      400       {object}  response.Response
// @Router       /api/appointments/slots [get]
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD"))
		return
	}

	var staffID *uuid.UUID
	if raw := c.Query("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid staff_id format"))
			return
		}
		staffID = &id
	}

	slots, err := h.scheduling.AvailableSlots(c.Request.Context(), date, staffID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, slots))
}

// GetAppointment returns one appointment
// @Summary      Get appointment
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  response.Response{data=model.Appointment}
// @Failure      404  {object}  response.Response
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appt, err := h.scheduling.GetAppointment(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// AssignSalesStaff assigns a sales staff member to a pending appointment
// @Summary      Assign sales staff
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Appointment ID"
// @Param        payload  body      object  true  "{ staff_id }"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      409      {object}  response.Response
// @Router       /api/appointments/{id}/assign [put]
func (h *AppointmentHandler) AssignSalesStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		StaffID uuid.UUID `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	appt, err := h.scheduling.AssignSalesStaff(c.Request.Context(), actorFrom(c), id, req.StaffID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// CancelAppointment cancels an appointment
// @Summary      Cancel appointment
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true   "Appointment ID"
// @Param        payload  body      object  false  "{ reason }"
// @Success      200      {object}  response.Response{data=service.CancelResult}
// @Failure      409      {object}  response.Response
// @Router       /api/appointments/{id}/cancel [put]
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	result, err := h.scheduling.CancelAppointment(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CompleteAppointment marks an appointment completed
// @Summary      Complete appointment
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true   "Appointment ID"
// @Param        payload  body      object  false  "{ notes }"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      409      {object}  response.Response
// @Router       /api/appointments/{id}/complete [put]
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	appt, err := h.scheduling.CompleteAppointment(c.Request.Context(), actorFrom(c), id, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// MarkNoShow flags a missed appointment
// @Summary      Mark no-show
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  response.Response{data=model.Appointment}
// @Failure      409  {object}  response.Response
// @Router       /api/appointments/{id}/no-show [put]
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appt, err := h.scheduling.MarkNoShow(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// UpdateStatus moves an appointment along its lifecycle
// @Summary      Update appointment status
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Appointment ID"
// @Param        payload  body      object  true  "{ status, note }"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      409      {object}  response.Response
// @Router       /api/appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	appt, err := h.scheduling.UpdateAppointmentStatus(c.Request.Context(), actorFrom(c), id, req.Status, req.Note)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// SetTravelFee sets whether an ocular visit carries a travel fee
// @Summary      Set travel fee
// @Tags         appointments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Appointment ID"
// @Param        payload  body      object  true  "{ required, amount }"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      400      {object}  response.Response
// @Router       /api/appointments/{id}/travel-fee [put]
func (h *AppointmentHandler) SetTravelFee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Required bool            `json:"required"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	appt, err := h.scheduling.SetTravelFee(c.Request.Context(), actorFrom(c), id, req.Required, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// CollectTravelFee records the on-site fee collection
// @Summary      Collect travel fee
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  response.Response{data=model.Appointment}
// @Failure      409  {object}  response.Response
// @Router       /api/appointments/{id}/travel-fee/collect [put]
func (h *AppointmentHandler) CollectTravelFee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appt, err := h.scheduling.CollectTravelFee(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}

// VerifyTravelFee records the cashier's fee verification
// @Summary      Verify travel fee
// @Tags         appointments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  response.Response{data=model.Appointment}
// @Failure      409  {object}  response.Response
// @Router       /api/appointments/{id}/travel-fee/verify [put]
func (h *AppointmentHandler) VerifyTravelFee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appt, err := h.scheduling.VerifyTravelFee(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, appt))
}
