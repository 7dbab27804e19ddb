package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service serviço do catálogo (ensaio, cobertura de evento etc.)
// base_price é apenas o preço sugerido: ao entrar num agendamento ele é
// copiado para o item e pode ser editado livremente a partir daí.
type Service struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Description   string    `json:"description"`
	BasePrice     float64   `json:"base_price" gorm:"type:decimal(10,2);not null;check:base_price >= 0"`
	DurationHours int       `json:"duration_hours" gorm:"not null;default:1;check:duration_hours >= 1"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName define o nome da tabela
func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
