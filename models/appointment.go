package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// StatusScheduled agendado
	StatusScheduled = "scheduled"
	// StatusCompleted concluído
	StatusCompleted = "completed"
	// StatusCancelled cancelado
	StatusCancelled = "cancelled"
)

// Appointment agendamento de ensaio/sessão
// Não há máquina de estados imposta: qualquer status pode ser regravado com
// qualquer outro via formulário.
type Appointment struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description"`
	ClientID    *uuid.UUID `json:"client_id" gorm:"type:uuid;index"`
	StartDate   time.Time  `json:"start_date" gorm:"not null;index"`
	EndDate     time.Time  `json:"end_date" gorm:"not null"`
	Location    string     `json:"location" gorm:"size:255"`
	Status      string     `json:"status" gorm:"size:20;not null;default:scheduled;check:status IN ('scheduled','completed','cancelled')"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	// Itens apagados em cascata junto com o agendamento
	Services []AppointmentService `json:"services" gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
}

// TableName define o nome da tabela
func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AppointmentService item de serviço de um agendamento
// price é uma cópia de services.base_price tirada no momento da seleção e
// editável de forma independente depois disso.
type AppointmentService struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `json:"appointment_id" gorm:"type:uuid;not null;index"`
	ServiceID     uuid.UUID `json:"service_id" gorm:"type:uuid;not null"`
	Price         float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity      int       `json:"quantity" gorm:"not null;default:1;check:quantity >= 1"`
	CreatedAt     time.Time `json:"created_at"`

	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT"`

	// Campos de exibição preenchidos na seleção do serviço; não persistem.
	ServiceName string `json:"service_name,omitempty" gorm:"-"`
}

// TableName define o nome da tabela
func (AppointmentService) TableName() string {
	return "appointment_services"
}

func (s *AppointmentService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
