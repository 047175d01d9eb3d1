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

type ProjectHandler struct {
	projects service.ProjectService
}

func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyAuth := middleware.RequireRole(append([]string{model.RoleCustomer}, model.StaffRoles...)...)
	sales := middleware.RequireRole(model.RoleSalesStaff, model.RoleAdmin)
	engineering := middleware.RequireRole(model.RoleEngineer, model.RoleAdmin)
	customer := middleware.RequireRole(model.RoleCustomer)
	staff := middleware.RequireRole(model.StaffRoles...)

	projects := router.Group("/api/projects")
	{
		projects.POST("", sales, h.CreateProject)
		projects.GET("", anyAuth, h.ListProjects)
		projects.GET("/:id", anyAuth, h.GetProject)
		projects.PUT("/:id/submit-to-engineer", sales, h.SubmitToEngineer)
		projects.POST("/:id/blueprint", engineering, h.UploadBlueprint)
		projects.POST("/:id/costing", engineering, h.UploadCosting)
		projects.PUT("/:id/submit-for-approval", engineering, h.SubmitForApproval)
		projects.PUT("/:id/approve", customer, h.ApproveProject)
		projects.PUT("/:id/request-revision", customer, h.RequestRevision)
		projects.PUT("/:id/status", staff, h.UpdateStatus)
		projects.PUT("/:id/fabrication-staff", middleware.RequireRole(model.RoleAdmin), h.AssignFabricationStaff)
		projects.PUT("/:id/fabrication-progress", middleware.RequireRole(model.RoleFabricationStaff, model.RoleAdmin), h.UpdateFabricationProgress)
	}
}

// CreateProject starts a project, usually from a completed consultation
// @Summary      Create project
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProjectRequest  true  "Create Project Payload"
// @Success      201      {object}  response.Response{data=model.Project}
// @Failure      400      {object}  response.Response
// @Router       /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// ListProjects lists projects visible to the caller
// @Summary      List projects
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=pagination.Page}
// @Router       /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.ProjectFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if raw := c.Query("customer_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CustomerID = &id
		}
	}

	projects, total, err := h.projects.ListProjects(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(projects, total, params)))
}

// GetProject returns one project
// @Summary      Get project
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=model.Project}
// @Failure      404  {object}  response.Response
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// SubmitToEngineer hands a draft project to an engineer
// @Summary      Submit to engineer
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Project ID"
// @Param        payload  body      object  true  "{ engineer_id }"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      409      {object}  response.Response
// @Router       /api/projects/{id}/submit-to-engineer [put]
func (h *ProjectHandler) SubmitToEngineer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		EngineerID uuid.UUID `json:"engineer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.SubmitToEngineer(c.Request.Context(), actorFrom(c), id, req.EngineerID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// UploadBlueprint appends a blueprint version
// @Summary      Upload blueprint
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Project ID"
// @Param        payload  body      service.UploadDocumentRequest  true  "Blueprint Payload"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      403      {object}  response.Response
// @Router       /api/projects/{id}/blueprint [post]
func (h *ProjectHandler) UploadBlueprint(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.UploadBlueprint(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// UploadCosting appends a cost-estimate version
// @Summary      Upload costing
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Project ID"
// @Param        payload  body      service.UploadCostingRequest  true  "Costing Payload"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      403      {object}  response.Response
// @Router       /api/projects/{id}/costing [post]
func (h *ProjectHandler) UploadCosting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UploadCostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.UploadCosting(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// SubmitForApproval sends the project to the customer for sign-off
// @Summary      Submit for approval
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=model.Project}
// @Failure      422  {object}  response.Response
// @Router       /api/projects/{id}/submit-for-approval [put]
func (h *ProjectHandler) SubmitForApproval(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.SubmitForApproval(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// ApproveProject records the customer's sign-off and opens the payment schedule
// @Summary      Approve project
// @Tags         projects
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=model.Project}
// @Failure      409  {object}  response.Response
// @Router       /api/projects/{id}/approve [put]
func (h *ProjectHandler) ApproveProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.ApproveProject(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// RequestRevision sends the project back to engineering
// @Summary      Request revision
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Project ID"
// @Param        payload  body      object  true  "{ type, description }"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      409      {object}  response.Response
// @Router       /api/projects/{id}/request-revision [put]
func (h *ProjectHandler) RequestRevision(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Type        string `json:"type" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.RequestRevision(c.Request.Context(), actorFrom(c), id, req.Type, req.Description)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// UpdateStatus is the staff-side status override
// @Summary      Update project status
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Project ID"
// @Param        payload  body      object  true  "{ status, notes }"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      400      {object}  response.Response
// @Router       /api/projects/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.UpdateProjectStatus(c.Request.Context(), actorFrom(c), id, req.Status, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// AssignFabricationStaff replaces the project's fabrication team
// @Summary      Assign fabrication staff
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Project ID"
// @Param        payload  body      object  true  "{ staff_ids }"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      404      {object}  response.Response
// @Router       /api/projects/{id}/fabrication-staff [put]
func (h *ProjectHandler) AssignFabricationStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		StaffIDs []uuid.UUID `json:"staff_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.AssignFabricationStaff(c.Request.Context(), actorFrom(c), id, req.StaffIDs)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// UpdateFabricationProgress records shop-floor progress
// @Summary      Update fabrication progress
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Project ID"
// @Param        payload  body      object  true  "{ progress, note }"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      400      {object}  response.Response
// @Router       /api/projects/{id}/fabrication-progress [put]
func (h *ProjectHandler) UpdateFabricationProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Progress int    `json:"progress"`
		Note     string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projects.UpdateFabricationProgress(c.Request.Context(), actorFrom(c), id, req.Progress, req.Note)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}
