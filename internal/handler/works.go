package handler

import (
	"net/http"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorksHandler struct{ svc service.WorkService }

func NewWorksHandler(svc service.WorkService) *WorksHandler { return &WorksHandler{svc: svc} }

// Create godoc
// @Summary      Create work
// @Description  Registers a construction work (site) that contracts attach to.
// @Tags         works
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateWorkRequest true "Work data"
// @Success      201  {object} dto.WorkResponse
// @Failure      400  {object} apierror.APIError
// @Router       /works [post]
func (h *WorksHandler) Create(c *gin.Context) {
	var req dto.CreateWorkRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List works
// @Tags         works
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.WorkResponse
// @Router       /works [get]
func (h *WorksHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get work by id
// @Tags         works
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work UUID"
// @Success      200  {object} dto.WorkResponse
// @Failure      404  {object} apierror.APIError
// @Router       /works/{id} [get]
func (h *WorksHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update work
// @Tags         works
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Work UUID"
// @Param        body body dto.UpdateWorkRequest true "Fields to update"
// @Success      200  {object} dto.WorkResponse
// @Failure      404  {object} apierror.APIError
// @Router       /works/{id} [put]
func (h *WorksHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateWorkRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete work
// @Tags         works
// @Security     BearerAuth
// @Param        id path string true "Work UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /works/{id} [delete]
func (h *WorksHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
