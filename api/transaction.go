package api

import (
	"time"

	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler caixa (receitas e despesas)
type TransactionHandler struct{}

// NewTransactionHandler cria o handler do caixa
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// TransactionRequest criação/edição de lançamento
type TransactionRequest struct {
	Type            string  `json:"type" binding:"required,oneof=income expense" example:"income"`
	Amount          float64 `json:"amount" binding:"required,gt=0" example:"350.00"`
	Description     string  `json:"description" binding:"required,min=1,max=255" example:"Ensaio Individual - Ana"`
	CategoryID      *string `json:"category_id"`
	ClientID        *string `json:"client_id"`
	TransactionDate string  `json:"transaction_date" binding:"required" example:"2025-01-10"`
}

// TransactionListRequest listagem de lançamentos
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	Type       string `form:"type" example:"income"`
	CategoryID string `form:"category_id"`
	ClientID   string `form:"client_id"`
	Search     string `form:"search" example:"ensaio"`
	StartDate  string `form:"start_date" example:"2025-01-01"`
	EndDate    string `form:"end_date" example:"2025-12-31"`
}

// parseOptionalUUID converte um *string em *uuid.UUID ("" e nil viram nil)
func parseOptionalUUID(s *string) (*uuid.UUID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// List lista os lançamentos do caixa
// @Summary Listar lançamentos
// @Description Lista os lançamentos com paginação, busca na descrição e filtros por tipo, categoria, cliente e intervalo de datas (limites inclusivos)
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param page query int false "página" default(1)
// @Param page_size query int false "itens por página" default(10)
// @Param type query string false "tipo" Enums(income,expense)
// @Param category_id query string false "filtro por categoria"
// @Param client_id query string false "filtro por cliente"
// @Param search query string false "busca na descrição"
// @Param start_date query string false "data inicial (2025-01-01)"
// @Param end_date query string false "data final (2025-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "ok"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}
	page, pageSize := normalizePage(req.Page, req.PageSize)

	query := database.DB.WithContext(c.Request.Context()).Model(&models.Transaction{})

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.CategoryID != "" {
		if id, err := uuid.Parse(req.CategoryID); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}
	if req.ClientID != "" {
		if id, err := uuid.Parse(req.ClientID); err == nil {
			query = query.Where("client_id = ?", id)
		}
	}
	if req.Search != "" {
		query = query.Where("description ILIKE ?", "%"+req.Search+"%")
	}
	// Intervalo de datas com os dois limites inclusos
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("transaction_date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			query = query.Where("transaction_date <= ?", t.Add(24*time.Hour-time.Second))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	var transactions []models.Transaction
	offset := (page - 1) * pageSize
	if err := query.Preload("Category").Preload("Client").
		Order("transaction_date DESC").Offset(offset).Limit(pageSize).
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     transactions,
	})
}

// Get devolve um lançamento
// @Summary Buscar lançamento
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do lançamento"
// @Success 200 {object} Response{data=models.Transaction} "ok"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var tx models.Transaction
	if err := database.DB.WithContext(c.Request.Context()).
		Preload("Category").Preload("Client").
		First(&tx, "id = ?", id).Error; err != nil {
		NotFound(c, "lançamento não encontrado")
		return
	}

	Success(c, tx)
}

// Create cria um lançamento
// @Summary Criar lançamento
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "dados do lançamento"
// @Success 200 {object} Response{data=models.Transaction} "criado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	txDate, err := time.ParseInLocation("2006-01-02", req.TransactionDate, time.Local)
	if err != nil {
		BadRequest(c, "data inválida, use o formato 2006-01-02")
		return
	}

	categoryID, ok := parseOptionalUUID(req.CategoryID)
	if !ok {
		BadRequest(c, "category_id inválido")
		return
	}
	clientID, ok := parseOptionalUUID(req.ClientID)
	if !ok {
		BadRequest(c, "client_id inválido")
		return
	}

	tx := models.Transaction{
		Type:            req.Type,
		Amount:          models.Round2(req.Amount),
		Description:     req.Description,
		CategoryID:      categoryID,
		ClientID:        clientID,
		TransactionDate: txDate,
	}

	if err := database.DB.WithContext(c.Request.Context()).Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao criar lançamento"))
		return
	}

	SuccessWithMessage(c, "lançamento criado", tx)
}

// Update atualiza um lançamento
// @Summary Atualizar lançamento
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do lançamento"
// @Param request body TransactionRequest true "dados do lançamento"
// @Success 200 {object} Response{data=models.Transaction} "atualizado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var tx models.Transaction
	if err := database.DB.WithContext(c.Request.Context()).First(&tx, "id = ?", id).Error; err != nil {
		NotFound(c, "lançamento não encontrado")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	txDate, err := time.ParseInLocation("2006-01-02", req.TransactionDate, time.Local)
	if err != nil {
		BadRequest(c, "data inválida, use o formato 2006-01-02")
		return
	}

	categoryID, ok := parseOptionalUUID(req.CategoryID)
	if !ok {
		BadRequest(c, "category_id inválido")
		return
	}
	clientID, ok := parseOptionalUUID(req.ClientID)
	if !ok {
		BadRequest(c, "client_id inválido")
		return
	}

	updates := map[string]interface{}{
		"type":             req.Type,
		"amount":           models.Round2(req.Amount),
		"description":      req.Description,
		"category_id":      categoryID,
		"client_id":        clientID,
		"transaction_date": txDate,
	}
	if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao atualizar"))
		return
	}

	database.DB.Preload("Category").Preload("Client").First(&tx, "id = ?", tx.ID)
	SuccessWithMessage(c, "lançamento atualizado", tx)
}

// Delete apaga um lançamento
// @Summary Apagar lançamento
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do lançamento"
// @Success 200 {object} Response "apagado"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var tx models.Transaction
	if err := database.DB.WithContext(c.Request.Context()).First(&tx, "id = ?", id).Error; err != nil {
		NotFound(c, "lançamento não encontrado")
		return
	}

	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao apagar"))
		return
	}

	SuccessWithMessage(c, "lançamento apagado", nil)
}
