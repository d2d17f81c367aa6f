package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrHistoryImmutable is returned when something tries to modify a history entry
var ErrHistoryImmutable = errors.New("history entries are write-once")

// History event labels
const (
	HistoryEventCreated = "creation"
	HistoryEventUpdated = "updated"
)

// HistoryEntry is an immutable snapshot of a draft at one point in time
type HistoryEntry struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	DraftID string `gorm:"type:uuid;not null;uniqueIndex:idx_historico_versao,priority:1" json:"rascunho"`
	// Per-draft sequence, newest entry has the highest value
	Version int `gorm:"not null;uniqueIndex:idx_historico_versao,priority:2" json:"versao"`

	// Actor; nil when unauthenticated or the user was removed
	UserID *string `gorm:"type:uuid;index" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`

	Event    *string        `gorm:"size:255" json:"evento"`
	Snapshot datatypes.JSON `gorm:"not null" json:"dados_rascunho"`
}

// BeforeCreate generates the UUID
func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of history entries (immutability)
func (h *HistoryEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

// TableName specifies the table name for HistoryEntry model
func (HistoryEntry) TableName() string {
	return "historico_rascunhos"
}

// StatusChangeEvent builds the label recorded for a status transition
func StatusChangeEvent(from, to string) string {
	return "status changed from " + from + " to " + to
}
