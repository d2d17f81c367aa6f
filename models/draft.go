package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Draft status constants
const (
	DraftStatusDraft     = "RASCUNHO"
	DraftStatusInReview  = "REVISAO"
	DraftStatusFinalized = "FINALIZADO"
)

// DraftStatuses lists every status a draft may hold
var DraftStatuses = []string{DraftStatusDraft, DraftStatusInReview, DraftStatusFinalized}

// IsValidDraftStatus checks if a status value is recognized
func IsValidDraftStatus(status string) bool {
	for _, s := range DraftStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Draft is a contract being assembled from a contract type, assigned parties,
// filled variables and a final clause list.
type Draft struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"data_criacao"`
	UpdatedAt time.Time `json:"data_atualizacao"`

	Title          string        `gorm:"size:255" json:"titulo_documento"`
	ContractTypeID *string       `gorm:"type:uuid;index" json:"tipo_contrato"`
	ContractType   *ContractType `gorm:"foreignKey:ContractTypeID;constraint:OnDelete:SET NULL" json:"-"`

	AssignedParties  datatypes.JSONMap `json:"partes_atribuidas"`     // role -> entity
	FilledVariables  datatypes.JSONMap `json:"variaveis_preenchidas"` // name -> value
	FinalizedClauses datatypes.JSON    `json:"clausulas_finais"`      // ordered list

	Status string `gorm:"size:20;not null;default:RASCUNHO;index" json:"status"`

	// Set only when drafts are scoped to their owner
	OwnerID *string `gorm:"type:uuid;index" json:"-"`

	// Relationships
	Attachments []Attachment   `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE" json:"-"`
	History     []HistoryEntry `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook to generate UUID and fill defaults
func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = DraftStatusDraft
	}
	if d.AssignedParties == nil {
		d.AssignedParties = datatypes.JSONMap{}
	}
	if d.FilledVariables == nil {
		d.FilledVariables = datatypes.JSONMap{}
	}
	if len(d.FinalizedClauses) == 0 {
		d.FinalizedClauses = datatypes.JSON("[]")
	}
	return nil
}

// TableName specifies the table name for Draft model
func (Draft) TableName() string {
	return "rascunhos_contrato"
}

// DraftSnapshot is the state captured in each history entry
type DraftSnapshot struct {
	Title            string                 `json:"titulo_documento"`
	ContractTypeID   *string                `json:"tipo_contrato"`
	AssignedParties  map[string]interface{} `json:"partes_atribuidas"`
	FilledVariables  map[string]interface{} `json:"variaveis_preenchidas"`
	FinalizedClauses json.RawMessage        `json:"clausulas_finais"`
	Status           string                 `json:"status"`
}

// Snapshot captures the draft's current content
func (d *Draft) Snapshot() DraftSnapshot {
	clauses := json.RawMessage(d.FinalizedClauses)
	if len(clauses) == 0 {
		clauses = json.RawMessage("[]")
	}
	return DraftSnapshot{
		Title:            d.Title,
		ContractTypeID:   d.ContractTypeID,
		AssignedParties:  d.AssignedParties,
		FilledVariables:  d.FilledVariables,
		FinalizedClauses: clauses,
		Status:           d.Status,
	}
}
