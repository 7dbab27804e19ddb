package service

import (
	"errors"

	"estudio/database"
	"estudio/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials usuário ou senha incorretos
var ErrInvalidCredentials = errors.New("usuário ou senha incorretos")

// CredentialVerifier valida uma credencial e devolve o usuário correspondente.
// Fica atrás de interface para o handler de login não depender de como a
// senha é conferida.
type CredentialVerifier interface {
	Verify(username, password string) (*models.User, error)
}

type dbVerifier struct{}

// NewCredentialVerifier verificador padrão: tabela users + bcrypt
func NewCredentialVerifier() CredentialVerifier {
	return &dbVerifier{}
}

func (v *dbVerifier) Verify(username, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
