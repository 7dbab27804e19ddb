package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// TypeIncome receita
	TypeIncome = "income"
	// TypeExpense despesa
	TypeExpense = "expense"
)

// Category categoria de transação (receita ou despesa)
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Type        string    `json:"type" gorm:"size:10;not null;check:type IN ('income','expense')"`
	Color       string    `json:"color" gorm:"size:20;default:#64748b"` // código de cor, ex. #ef4444
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName define o nome da tabela
func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
