package api

import (
	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServiceHandler catálogo de serviços
type ServiceHandler struct{}

// NewServiceHandler cria o handler do catálogo
func NewServiceHandler() *ServiceHandler {
	return &ServiceHandler{}
}

// ServiceRequest criação/edição de serviço
type ServiceRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=255" example:"Ensaio Individual"`
	Description   string  `json:"description"`
	BasePrice     float64 `json:"base_price" binding:"gte=0" example:"350.00"`
	DurationHours int     `json:"duration_hours" binding:"required,gte=1" example:"2"`
}

// ServiceListRequest listagem de serviços
type ServiceListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"10"`
	Search   string `form:"search" example:"ensaio"`
}

// List lista os serviços do catálogo
// @Summary Listar serviços
// @Description Lista os serviços com paginação e busca por substring em nome e descrição
// @Tags serviços
// @Produce json
// @Security BearerAuth
// @Param page query int false "página" default(1)
// @Param page_size query int false "itens por página" default(10)
// @Param search query string false "termo de busca"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Service}} "ok"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/services [get]
func (h *ServiceHandler) List(c *gin.Context) {
	var req ServiceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}
	page, pageSize := normalizePage(req.Page, req.PageSize)

	query := database.DB.WithContext(c.Request.Context()).Model(&models.Service{})
	if req.Search != "" {
		term := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	var services []models.Service
	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&services).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     services,
	})
}

// Get devolve um serviço
// @Summary Buscar serviço
// @Tags serviços
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do serviço"
// @Success 200 {object} Response{data=models.Service} "ok"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/services/{id} [get]
func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var svc models.Service
	if err := database.DB.WithContext(c.Request.Context()).First(&svc, "id = ?", id).Error; err != nil {
		NotFound(c, "serviço não encontrado")
		return
	}

	Success(c, svc)
}

// Create cria um serviço
// @Summary Criar serviço
// @Description Cria um serviço do catálogo; base_price é o preço sugerido copiado para os itens de agendamento
// @Tags serviços
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ServiceRequest true "dados do serviço"
// @Success 200 {object} Response{data=models.Service} "criado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Router /api/v1/services [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	svc := models.Service{
		Name:          req.Name,
		Description:   req.Description,
		BasePrice:     models.Round2(req.BasePrice),
		DurationHours: req.DurationHours,
	}

	if err := database.DB.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao criar serviço"))
		return
	}

	SuccessWithMessage(c, "serviço criado", svc)
}

// Update atualiza um serviço
// @Summary Atualizar serviço
// @Tags serviços
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do serviço"
// @Param request body ServiceRequest true "dados do serviço"
// @Success 200 {object} Response{data=models.Service} "atualizado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/services/{id} [put]
func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var svc models.Service
	if err := database.DB.WithContext(c.Request.Context()).First(&svc, "id = ?", id).Error; err != nil {
		NotFound(c, "serviço não encontrado")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	updates := map[string]interface{}{
		"name":           req.Name,
		"description":    req.Description,
		"base_price":     models.Round2(req.BasePrice),
		"duration_hours": req.DurationHours,
	}
	if err := database.DB.Model(&svc).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao atualizar"))
		return
	}

	database.DB.First(&svc, "id = ?", svc.ID)
	SuccessWithMessage(c, "serviço atualizado", svc)
}

// Delete apaga um serviço
// @Summary Apagar serviço
// @Description Apaga um serviço. Itens de agendamento existentes apontando para ele fazem o banco rejeitar a exclusão.
// @Tags serviços
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do serviço"
// @Success 200 {object} Response "apagado"
// @Failure 404 {object} Response "não encontrado"
// @Failure 409 {object} Response "serviço referenciado"
// @Router /api/v1/services/{id} [delete]
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var svc models.Service
	if err := database.DB.WithContext(c.Request.Context()).First(&svc, "id = ?", id).Error; err != nil {
		NotFound(c, "serviço não encontrado")
		return
	}

	if err := database.DB.Delete(&svc).Error; err != nil {
		Conflict(c, SafeErrorMessage(err, "serviço em uso, exclusão rejeitada"))
		return
	}

	SuccessWithMessage(c, "serviço apagado", nil)
}
