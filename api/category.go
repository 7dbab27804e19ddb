package api

import (
	"strings"

	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryHandler categorias de lançamento
type CategoryHandler struct{}

// NewCategoryHandler cria o handler de categorias
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryCreateRequest criação de categoria
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"Ensaios"`
	Type        string `json:"type" binding:"required,oneof=income expense" example:"income"`
	Color       string `json:"color" binding:"omitempty,max=20" example:"#10b981"`
	Description string `json:"description"`
}

// CategoryUpdateRequest edição de categoria
// O tipo não é editável: lançamentos existentes dependem dele.
type CategoryUpdateRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=1,max=100"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
	Description *string `json:"description"`
}

// List lista as categorias
// @Summary Listar categorias
// @Description Lista as categorias, com filtro opcional por tipo (income/expense)
// @Tags categorias
// @Produce json
// @Security BearerAuth
// @Param type query string false "tipo" Enums(income,expense)
// @Success 200 {object} Response{data=[]models.Category} "ok"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	query := database.DB.WithContext(c.Request.Context()).Model(&models.Category{})
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var list []models.Category
	if err := query.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}
	Success(c, list)
}

// Create cria uma categoria
// @Summary Criar categoria
// @Tags categorias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "dados da categoria"
// @Success 200 {object} Response{data=models.Category} "criada"
// @Failure 400 {object} Response "parâmetros inválidos ou nome duplicado"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "nome não pode ser vazio")
		return
	}

	// Unicidade por nome+tipo
	var existing models.Category
	if err := database.DB.Where("name = ? AND type = ?", req.Name, req.Type).First(&existing).Error; err == nil {
		BadRequest(c, "já existe uma categoria com esse nome")
		return
	}

	color := req.Color
	if color == "" {
		color = "#64748b" // cinza padrão
	}
	cat := models.Category{Name: req.Name, Type: req.Type, Color: color, Description: req.Description}
	if err := database.DB.WithContext(c.Request.Context()).Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao criar categoria"))
		return
	}
	SuccessWithMessage(c, "categoria criada", cat)
}

// Update atualiza uma categoria
// @Summary Atualizar categoria
// @Description Atualiza nome, cor e descrição. O tipo é imutável após a criação.
// @Tags categorias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da categoria"
// @Param request body CategoryUpdateRequest true "dados da categoria"
// @Success 200 {object} Response{data=models.Category} "atualizada"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 404 {object} Response "não encontrada"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}

	var cat models.Category
	if err := database.DB.WithContext(c.Request.Context()).First(&cat, "id = ?", id).Error; err != nil {
		NotFound(c, "categoria não encontrada")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "nome não pode ser vazio")
			return
		}
		var existing models.Category
		if err := database.DB.Where("name = ? AND type = ? AND id != ?", name, cat.Type, cat.ID).First(&existing).Error; err == nil {
			BadRequest(c, "já existe uma categoria com esse nome")
			return
		}
		updates["name"] = name
	}
	if req.Color != nil {
		color := *req.Color
		if color == "" {
			color = "#64748b" // cinza padrão
		}
		updates["color"] = color
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "nada a atualizar", cat)
		return
	}

	if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao atualizar"))
		return
	}
	database.DB.First(&cat, "id = ?", cat.ID)
	SuccessWithMessage(c, "categoria atualizada", cat)
}

// Delete apaga uma categoria
// @Summary Apagar categoria
// @Description Apaga uma categoria. Com lançamentos referenciando a categoria o banco rejeita a exclusão e o erro é devolvido ao cliente.
// @Tags categorias
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da categoria"
// @Success 200 {object} Response "apagada"
// @Failure 404 {object} Response "não encontrada"
// @Failure 409 {object} Response "categoria referenciada por lançamentos"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID inválido")
		return
	}
	var cat models.Category
	if err := database.DB.WithContext(c.Request.Context()).First(&cat, "id = ?", id).Error; err != nil {
		NotFound(c, "categoria não encontrada")
		return
	}
	if err := database.DB.Delete(&cat).Error; err != nil {
		// FK RESTRICT nos lançamentos: a exclusão é rejeitada pelo banco
		Conflict(c, SafeErrorMessage(err, "categoria em uso por lançamentos, exclusão rejeitada"))
		return
	}
	SuccessWithMessage(c, "categoria apagada", nil)
}
