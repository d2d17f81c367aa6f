package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractType declares the party roles a kind of contract requires
// and the clauses suggested for it.
type ContractType struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name        string  `gorm:"size:255;not null" json:"nome"`
	Description *string `gorm:"type:text" json:"descricao"`

	// Relationships
	RequiredRoles    []PartyRoleType `gorm:"many2many:tipos_contrato_partes_requeridas;" json:"partes_requeridas"`
	SuggestedClauses []ClauseText    `gorm:"many2many:tipos_contrato_clausulas_base;" json:"clausulas_base"`
}

// BeforeCreate hook to generate UUID
func (ct *ContractType) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == "" {
		ct.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ContractType model
func (ContractType) TableName() string {
	return "tipos_contrato"
}
