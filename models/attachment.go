package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is an uploaded file bound to a draft
type Attachment struct {
	ID         string    `gorm:"type:uuid;primarykey" json:"id"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"data_upload"`

	DraftID string `gorm:"type:uuid;not null;index" json:"rascunho"`
	Draft   *Draft `gorm:"foreignKey:DraftID" json:"-"`

	FileKey  string `gorm:"not null" json:"-"` // storage key
	URL      string `gorm:"-" json:"arquivo"`
	FileName string `gorm:"size:255;not null" json:"nome_arquivo"`
	FileSize int64  `json:"tamanho"`
	MimeType string `gorm:"size:100" json:"tipo_mime"`

	UploadedByID *string `gorm:"type:uuid" json:"-"`
}

// BeforeCreate hook to generate UUID
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// AfterCreate fills the download URL
func (a *Attachment) AfterCreate(tx *gorm.DB) error {
	a.URL = a.DownloadURL()
	return nil
}

// AfterFind fills the download URL
func (a *Attachment) AfterFind(tx *gorm.DB) error {
	a.URL = a.DownloadURL()
	return nil
}

// DownloadURL is where clients fetch the attachment's content
func (a *Attachment) DownloadURL() string {
	return "/api/anexos/" + a.ID + "/download/"
}

// TableName specifies the table name for Attachment model
func (Attachment) TableName() string {
	return "anexos"
}
