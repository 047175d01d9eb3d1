package handler

import (
	"net/http"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/middleware"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/service"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom builds the workflow caller identity from the authenticated
// request context.
func actorFrom(c *gin.Context) service.Actor {
	id, _ := middleware.CallerID(c)
	return service.Actor{ID: id, Role: middleware.CallerRole(c)}
}

// pathID parses the named uuid path parameter, replying 400 on garbage.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// fail writes the error with its taxonomy-mapped status code.
func fail(c *gin.Context, err error) {
	status, body := response.FromError(err)
	c.JSON(status, body)
}
