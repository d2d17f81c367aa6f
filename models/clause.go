package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClauseText is a reusable contract clause
type ClauseText struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Title              string `gorm:"size:255;not null" json:"titulo"`
	Body               string `gorm:"type:text;not null" json:"conteudo_padrao"`
	RequiresAttachment bool   `gorm:"not null;default:false" json:"requer_anexo"`
}

// BeforeCreate hook to generate UUID
func (c *ClauseText) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ClauseText model
func (ClauseText) TableName() string {
	return "clausulas"
}
