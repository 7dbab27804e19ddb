package api

import (
	"fmt"
	"log"
	"time"

	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentHandler agenda de ensaios e sessões
type AppointmentHandler struct{}

// NewAppointmentHandler cria o handler da agenda
func NewAppointmentHandler() *AppointmentHandler {
	return &AppointmentHandler{}
}

// AppointmentItemRequest item de serviço submetido no formulário
// price ausente usa o base_price do serviço (cópia no momento da seleção);
// price presente é um valor já editado pelo usuário e vale como está.
type AppointmentItemRequest struct {
	ServiceID string   `json:"service_id" binding:"required"`
	Price     *float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity  int      `json:"quantity" binding:"omitempty,gte=1" example:"1"`
}

// AppointmentRequest criação/edição de agendamento
type AppointmentRequest struct {
	Title       string                   `json:"title" binding:"required,min=1,max=255" example:"Ensaio Individual"`
	Description string                   `json:"description"`
	ClientID    *string                  `json:"client_id"`
	StartDate   string                   `json:"start_date" binding:"required" example:"2025-01-10 10:00:00"`
	EndDate     string                   `json:"end_date" binding:"required" example:"2025-01-10 12:00:00"`
	Location    string                   `json:"location" binding:"omitempty,max=255"`
	Status      string                   `json:"status" binding:"omitempty,oneof=scheduled completed cancelled" example:"scheduled"`
	Services    []AppointmentItemRequest `json:"services"`
}

// AppointmentListRequest listagem de agendamentos
type AppointmentListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Status    string `form:"status" example:"scheduled"`
	Search    string `form:"search" example:"ensaio"`
	StartDate string `form:"start_date" example:"2025-01-01"`
	EndDate   string `form:"end_date" example:"2025-01-31"`
}

// List lista os agendamentos
// @Summary Listar agendamentos
// @Description Lista os agendamentos com paginação, filtro por status e busca por substring em título, local e descrição
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param page query int false "página" default(1)
// @Param page_size query int false "itens por página" default(10)
// @Param status query string false "status" Enums(scheduled,completed,cancelled)
// @Param search query string false "termo de busca"
// @Param start_date query string false "início do intervalo (2025-01-01)"
// @Param end_date query string false "fim do intervalo (2025-01-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Appointment}} "ok"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	var req AppointmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}
	page, pageSize := normalizePage(req.Page, req.PageSize)

	query := database.DB.WithContext(c.Request.Context()).Model(&models.Appointment{})

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		term := "%" + req.Search + "%"
		query = query.Where("title ILIKE ? OR location ILIKE ? OR description ILIKE ?", term, term, term)
	}
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("start_date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			query = query.Where("start_date <= ?", t.Add(24*time.Hour-time.Second))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	var appointments []models.Appointment
	offset := (page - 1) * pageSize
	if err := query.Preload("Client").Preload("Services").Preload("Services.Service").
		Order("start_date DESC").Offset(offset).Limit(pageSize).
		Find(&appointments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     appointments,
	})
}

// Get devolve um agendamento com seus itens
// @Summary Buscar agendamento
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do agendamento"
// @Success 200 {object} Response{data=models.Appointment} "ok"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var appointment models.Appointment
	if err := database.DB.WithContext(c.Request.Context()).
		Preload("Client").Preload("Services").Preload("Services.Service").
		First(&appointment, "id = ?", id).Error; err != nil {
		NotFound(c, "agendamento não encontrado")
		return
	}

	Success(c, appointment)
}

// Create cria um agendamento com seus itens de serviço
// @Summary Criar agendamento
// @Description Cria o agendamento e seus itens numa única transação. Status completed com itens gera o lançamento de receita correspondente.
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AppointmentRequest true "dados do agendamento"
// @Success 200 {object} Response{data=models.Appointment} "criado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Router /api/v1/appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	appointment, list, ok := h.prepare(c, &req, nil)
	if !ok {
		return
	}

	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Services", "Client").Create(appointment).Error; err != nil {
			return err
		}
		if err := insertLineItems(tx, appointment.ID, list); err != nil {
			return err
		}
		// criado já como concluído também gera a receita
		if appointment.Status == models.StatusCompleted && list.Len() > 0 {
			return createCompletionTransaction(tx, appointment, list)
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao salvar agendamento"))
		return
	}

	h.reload(c, appointment)
	SuccessWithMessage(c, "agendamento criado", appointment)
}

// Update regrava um agendamento e seus itens
// @Summary Atualizar agendamento
// @Description Regrava o agendamento, apaga os itens antigos e insere a lista atual — tudo numa única transação (all-or-nothing). Ao mudar o status para completed com itens, o lançamento de receita entra na mesma transação.
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do agendamento"
// @Param request body AppointmentRequest true "dados do agendamento"
// @Success 200 {object} Response{data=models.Appointment} "atualizado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/appointments/{id} [put]
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var existing models.Appointment
	if err := database.DB.WithContext(c.Request.Context()).First(&existing, "id = ?", id).Error; err != nil {
		NotFound(c, "agendamento não encontrado")
		return
	}
	previousStatus := existing.Status

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	appointment, list, ok := h.prepare(c, &req, &existing)
	if !ok {
		return
	}

	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       appointment.Title,
			"description": appointment.Description,
			"client_id":   appointment.ClientID,
			"start_date":  appointment.StartDate,
			"end_date":    appointment.EndDate,
			"location":    appointment.Location,
			"status":      appointment.Status,
		}
		if err := tx.Model(&models.Appointment{}).Where("id = ?", appointment.ID).Updates(updates).Error; err != nil {
			return err
		}
		// protocolo do formulário: apaga todos os itens e reinsere a lista atual
		if err := tx.Where("appointment_id = ?", appointment.ID).Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}
		if err := insertLineItems(tx, appointment.ID, list); err != nil {
			return err
		}
		// receita apenas na transição para completed, sem duplicar em regravações
		if appointment.Status == models.StatusCompleted && previousStatus != models.StatusCompleted && list.Len() > 0 {
			return createCompletionTransaction(tx, appointment, list)
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao salvar agendamento"))
		return
	}

	h.reload(c, appointment)
	SuccessWithMessage(c, "agendamento atualizado", appointment)
}

// Delete apaga um agendamento (itens caem em cascata)
// @Summary Apagar agendamento
// @Description Apaga um agendamento; os itens de serviço são removidos em cascata pelo banco
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do agendamento"
// @Success 200 {object} Response "apagado"
// @Failure 404 {object} Response "não encontrado"
// @Router /api/v1/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var appointment models.Appointment
	if err := database.DB.WithContext(c.Request.Context()).First(&appointment, "id = ?", id).Error; err != nil {
		NotFound(c, "agendamento não encontrado")
		return
	}

	if err := database.DB.Select("Services").Delete(&appointment).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao apagar"))
		return
	}

	SuccessWithMessage(c, "agendamento apagado", nil)
}

// prepare valida a requisição e monta o agendamento + lista de itens.
// Escreve a resposta de erro e devolve ok=false quando algo é inválido.
func (h *AppointmentHandler) prepare(c *gin.Context, req *AppointmentRequest, existing *models.Appointment) (*models.Appointment, *models.LineItemList, bool) {
	startDate, err := time.ParseInLocation("2006-01-02 15:04:05", req.StartDate, time.Local)
	if err != nil {
		BadRequest(c, "start_date inválido, use o formato 2006-01-02 15:04:05")
		return nil, nil, false
	}
	endDate, err := time.ParseInLocation("2006-01-02 15:04:05", req.EndDate, time.Local)
	if err != nil {
		BadRequest(c, "end_date inválido, use o formato 2006-01-02 15:04:05")
		return nil, nil, false
	}

	clientID, ok := parseOptionalUUID(req.ClientID)
	if !ok {
		BadRequest(c, "client_id inválido")
		return nil, nil, false
	}

	status := req.Status
	if status == "" {
		status = models.StatusScheduled
	}

	list, err := h.buildLineItems(c, req.Services)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "itens de serviço inválidos"))
		return nil, nil, false
	}

	appointment := &models.Appointment{
		Title:       req.Title,
		Description: req.Description,
		ClientID:    clientID,
		StartDate:   startDate,
		EndDate:     endDate,
		Location:    req.Location,
		Status:      status,
	}
	if existing != nil {
		appointment.ID = existing.ID
	}
	return appointment, list, true
}

// buildLineItems monta a lista de itens do formulário: cada linha entra
// vazia, recebe o serviço (que copia o base_price) e depois os ajustes de
// preço/quantidade feitos pelo usuário.
func (h *AppointmentHandler) buildLineItems(c *gin.Context, items []AppointmentItemRequest) (*models.LineItemList, error) {
	list := &models.LineItemList{}
	for i, item := range items {
		serviceID, err := uuid.Parse(item.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("item %d: service_id inválido", i)
		}
		var svc models.Service
		if err := database.DB.WithContext(c.Request.Context()).First(&svc, "id = ?", serviceID).Error; err != nil {
			return nil, fmt.Errorf("item %d: serviço não encontrado", i)
		}

		list.Add()
		if err := list.SetService(i, svc); err != nil {
			return nil, err
		}
		if item.Price != nil {
			if err := list.SetPrice(i, models.Round2(*item.Price)); err != nil {
				return nil, err
			}
		}
		if item.Quantity > 0 {
			if err := list.SetQuantity(i, item.Quantity); err != nil {
				return nil, err
			}
		}
	}
	return list, nil
}

// insertLineItems grava a lista atual de itens do agendamento
func insertLineItems(tx *gorm.DB, appointmentID uuid.UUID, list *models.LineItemList) error {
	if list.Len() == 0 {
		return nil
	}
	items := make([]models.AppointmentService, list.Len())
	for i, item := range list.Items {
		items[i] = models.AppointmentService{
			AppointmentID: appointmentID,
			ServiceID:     item.ServiceID,
			Price:         item.Price,
			Quantity:      item.Quantity,
		}
	}
	return tx.Create(&items).Error
}

// createCompletionTransaction gera o lançamento de receita de um agendamento
// concluído: valor = total dos itens, data = data de início, cliente copiado.
func createCompletionTransaction(tx *gorm.DB, appointment *models.Appointment, list *models.LineItemList) error {
	description := appointment.Title
	if appointment.ClientID != nil {
		var client models.Client
		if err := tx.First(&client, "id = ?", *appointment.ClientID).Error; err == nil {
			description = fmt.Sprintf("%s - %s", appointment.Title, client.Name)
		}
	}

	start := appointment.StartDate
	transaction := models.Transaction{
		Type:            models.TypeIncome,
		Amount:          list.Total(),
		Description:     description,
		ClientID:        appointment.ClientID,
		TransactionDate: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return fmt.Errorf("falha ao gerar a receita do agendamento: %w", err)
	}
	log.Printf("receita de %.2f gerada para o agendamento %s", transaction.Amount, appointment.ID)
	return nil
}

// reload recarrega o agendamento com cliente e itens para a resposta
func (h *AppointmentHandler) reload(c *gin.Context, appointment *models.Appointment) {
	database.DB.WithContext(c.Request.Context()).
		Preload("Client").Preload("Services").Preload("Services.Service").
		First(appointment, "id = ?", appointment.ID)
}
