package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyRoleType is a role a party can fill in a contract ("Locador", "Empregador")
type PartyRoleType struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name string `gorm:"size:100;not null" json:"nome"`
}

// BeforeCreate hook to generate UUID
func (p *PartyRoleType) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for PartyRoleType model
func (PartyRoleType) TableName() string {
	return "tipos_parte"
}
