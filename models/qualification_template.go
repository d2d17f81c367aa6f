package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QualificationTemplate is a reusable party qualification paragraph with
// {{placeholder}} variables, e.g. "{{nome_parte}}, {{nacionalidade}}, inscrito no CPF sob o nº {{cpf}}".
type QualificationTemplate struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name              string         `gorm:"size:100;not null" json:"nome"`
	IsOrganization    bool           `gorm:"not null;default:false" json:"is_pessoa_juridica"`
	TemplateHTML      string         `gorm:"type:text;not null" json:"template_html"`
	RequiredVariables datatypes.JSON `json:"variaveis_necessarias"` // JSON list of placeholder names
}

// BeforeCreate hook to generate UUID
func (q *QualificationTemplate) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if len(q.RequiredVariables) == 0 {
		q.RequiredVariables = datatypes.JSON("[]")
	}
	return nil
}

// TableName specifies the table name for QualificationTemplate model
func (QualificationTemplate) TableName() string {
	return "templates_qualificacao"
}
