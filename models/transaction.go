package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction lançamento do caixa (receita ou despesa)
// Categoria e cliente são opcionais; as referências usam ON DELETE RESTRICT,
// então apagar uma categoria em uso é rejeitado pelo banco.
type Transaction struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Type            string     `json:"type" gorm:"size:10;not null;check:type IN ('income','expense')"`
	Amount          float64    `json:"amount" gorm:"type:decimal(10,2);not null;check:amount > 0"`
	Description     string     `json:"description" gorm:"size:255;not null"`
	CategoryID      *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	ClientID        *uuid.UUID `json:"client_id" gorm:"type:uuid;index"`
	TransactionDate time.Time  `json:"transaction_date" gorm:"type:date;not null;index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Client   *Client   `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
}

// TableName define o nome da tabela
func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
