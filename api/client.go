package api

import (
	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler cadastro de clientes
type ClientHandler struct{}

// NewClientHandler cria o handler de clientes
func NewClientHandler() *ClientHandler {
	return &ClientHandler{}
}

// ClientRequest criação/edição de cliente
type ClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255" example:"Ana Silva"`
	Email   string `json:"email" binding:"omitempty,email" example:"ana@example.com"`
	Phone   string `json:"phone" binding:"omitempty,max=50" example:"(11) 99999-0000"`
	Address string `json:"address" binding:"omitempty,max=255"`
	Notes   string `json:"notes"`
}

// ClientListRequest listagem de clientes
type ClientListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"10"`
	Search   string `form:"search" example:"ana"`
}

// List lista clientes
// @Summary Listar clientes
// @Description Lista os clientes com paginação e busca por substring (sem diferenciar maiúsculas) em nome, e-mail e telefone
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param page query int false "página" default(1)
// @Param page_size query int false "itens por página" default(10)
// @Param search query string false "termo de busca"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Client}} "ok"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var req ClientListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}
	page, pageSize := normalizePage(req.Page, req.PageSize)

	query := database.DB.WithContext(c.Request.Context()).Model(&models.Client{})

	// Busca no servidor: substring case-insensitive
	if req.Search != "" {
		term := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", term, term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	var clients []models.Client
	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&clients).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     clients,
	})
}

// Get devolve um cliente
// @Summary Buscar cliente
// @Description Devolve um cliente pelo ID
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Success 200 {object} Response{data=models.Client} "ok"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var client models.Client
	if err := database.DB.WithContext(c.Request.Context()).First(&client, "id = ?", id).Error; err != nil {
		NotFound(c, "cliente não encontrado")
		return
	}

	Success(c, client)
}

// Create cria um cliente
// @Summary Criar cliente
// @Description Cria um novo cliente (apenas o nome é obrigatório)
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClientRequest true "dados do cliente"
// @Success 200 {object} Response{data=models.Client} "criado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Router /api/v1/clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	client := models.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := database.DB.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao criar cliente"))
		return
	}

	SuccessWithMessage(c, "cliente criado", client)
}

// Update atualiza um cliente
// @Summary Atualizar cliente
// @Description Regrava os dados do cliente a partir do formulário
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Param request body ClientRequest true "dados do cliente"
// @Success 200 {object} Response{data=models.Client} "atualizado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var client models.Client
	if err := database.DB.WithContext(c.Request.Context()).First(&client, "id = ?", id).Error; err != nil {
		NotFound(c, "cliente não encontrado")
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"email":   req.Email,
		"phone":   req.Phone,
		"address": req.Address,
		"notes":   req.Notes,
	}
	if err := database.DB.Model(&client).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao atualizar"))
		return
	}

	// Recarrega o registro atualizado
	database.DB.First(&client, "id = ?", client.ID)
	SuccessWithMessage(c, "cliente atualizado", client)
}

// Delete apaga um cliente
// @Summary Apagar cliente
// @Description Apaga um cliente. Se houver lançamentos ou agendamentos apontando para ele, o banco rejeita a exclusão.
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Success 200 {object} Response "apagado"
// @Failure 404 {object} Response "não encontrado"
// @Failure 409 {object} Response "cliente referenciado"
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var client models.Client
	if err := database.DB.WithContext(c.Request.Context()).First(&client, "id = ?", id).Error; err != nil {
		NotFound(c, "cliente não encontrado")
		return
	}

	if err := database.DB.Delete(&client).Error; err != nil {
		// FK RESTRICT: registro em uso
		Conflict(c, SafeErrorMessage(err, "cliente em uso, exclusão rejeitada"))
		return
	}

	SuccessWithMessage(c, "cliente apagado", nil)
}

// normalizePage aplica os limites de paginação padrão
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
