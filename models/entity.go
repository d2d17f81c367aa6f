package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entity is a person or organization that can be assigned to a contract role.
// CPF and RG apply to people, CNPJ to organizations; the unused side is kept empty.
type Entity struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name           string `gorm:"size:255;not null;index" json:"nome"`
	IsOrganization bool   `gorm:"not null;default:false;index" json:"is_pessoa_juridica"`

	// Stored as digits only
	PersonTaxID       *string `gorm:"size:14;uniqueIndex" json:"cpf"`
	IdentityDocument  *string `gorm:"size:12" json:"rg"`
	OrganizationTaxID *string `gorm:"size:18;uniqueIndex" json:"cnpj"`

	Address    *string           `gorm:"type:text" json:"endereco"`
	Attributes datatypes.JSONMap `json:"outros_dados"` // nacionalidade, profissao, estado_civil...
}

// BeforeCreate hook to generate UUID
func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Attributes == nil {
		e.Attributes = datatypes.JSONMap{}
	}
	return nil
}

// TableName specifies the table name for Entity model
func (Entity) TableName() string {
	return "entidades"
}
