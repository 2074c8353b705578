package handler

import (
	"net/http"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContractsHandler struct{ svc service.ContractService }

func NewContractsHandler(svc service.ContractService) *ContractsHandler {
	return &ContractsHandler{svc: svc}
}

// Create godoc
// @Summary      Create contract
// @Description  Creates a contract with its line items in one transaction. Item totals and the contract total are derived server-side.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateContractRequest true "Contract data"
// @Success      201  {object} dto.ContractResponse
// @Failure      400  {object} apierror.APIError
// @Router       /contracts [post]
func (h *ContractsHandler) Create(c *gin.Context) {
	var req dto.CreateContractRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateContract(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List contracts
// @Description  Returns contracts filtered by work, supplier, status and approval status. With includeDetails=true each contract carries its items and per-item accumulated/balance quantities.
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        workId         query string false "Filter by work UUID"
// @Param        supplierId     query string false "Filter by supplier UUID"
// @Param        status         query string false "Ativo | Encerrado"
// @Param        approvalStatus query string false "Pendente | Aprovado"
// @Param        includeDetails query bool   false "Include items and quantity balances"
// @Success      200  {array} dto.ContractListItem
// @Failure      400  {object} apierror.APIError
// @Router       /contracts [get]
func (h *ContractsHandler) List(c *gin.Context) {
	var filter dto.ContractFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.IncludeDetails {
		resp, err := h.svc.ListContractsWithDetails(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	resp, err := h.svc.ListContracts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get contract by id
// @Description  Returns the contract with items, each annotated with accumulated measured quantity and remaining balance.
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contract UUID"
// @Success      200  {object} dto.ContractResponse
// @Failure      404  {object} apierror.APIError
// @Router       /contracts/{id} [get]
func (h *ContractsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.GetContract(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
