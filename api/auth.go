package api

import (
	"errors"

	"estudio/config"
	"estudio/database"
	"estudio/middleware"
	"estudio/models"
	"estudio/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler autenticação
type AuthHandler struct {
	cfg      *config.Config
	verifier service.CredentialVerifier
}

// NewAuthHandler cria o handler de autenticação
func NewAuthHandler(cfg *config.Config, verifier service.CredentialVerifier) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		verifier: verifier,
	}
}

// LoginRequest requisição de login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse resposta de login
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// ChangePasswordRequest troca de senha
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// Login autentica e devolve um token JWT
// @Summary Login
// @Description Autentica a credencial do estúdio e devolve um token JWT
// @Tags autenticação
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credencial"
// @Success 200 {object} Response{data=LoginResponse} "login efetuado"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 401 {object} Response "usuário ou senha incorretos"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	user, err := h.verifier.Verify(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, "usuário ou senha incorretos")
			return
		}
		InternalError(c, SafeErrorMessage(err, "falha ao autenticar"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "falha ao gerar token")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: *user,
	})
}

// GetProfile devolve o usuário autenticado
// @Summary Perfil
// @Description Devolve os dados do usuário autenticado
// @Tags autenticação
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "ok"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		NotFound(c, "usuário não encontrado")
		return
	}

	Success(c, user)
}

// ChangePassword troca a senha do usuário autenticado
// @Summary Trocar senha
// @Description Confere a senha atual e grava a nova
// @Tags autenticação
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "senhas"
// @Success 200 {object} Response "senha alterada"
// @Failure 400 {object} Response "parâmetros inválidos ou senha atual incorreta"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "parâmetros inválidos"))
		return
	}

	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		NotFound(c, "usuário não encontrado")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		BadRequest(c, "senha atual incorreta")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "falha ao criptografar a senha")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "falha ao salvar a senha"))
		return
	}

	SuccessWithMessage(c, "senha alterada", nil)
}
