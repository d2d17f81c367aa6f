package services

import (
	"context"
	"io"
	"mime/multipart"

	"srv_contratos/models"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AttachmentService binds uploaded files to drafts
type AttachmentService struct {
	db      *gorm.DB
	storage StorageProvider
	drafts  *DraftService
}

// NewAttachmentService creates a new attachment service instance.
// Draft visibility follows the draft service's owner scoping.
func NewAttachmentService(db *gorm.DB, storage StorageProvider, drafts *DraftService) *AttachmentService {
	return &AttachmentService{db: db, storage: storage, drafts: drafts}
}

// Create stores file and records it against draftID
func (s *AttachmentService) Create(ctx context.Context, actor *models.User, draftID string, file *multipart.FileHeader) (*models.Attachment, error) {
	problems := FieldErrors{}
	if draftID == "" {
		problems.Add("rascunho", "Este campo é obrigatório.")
	}
	if file == nil {
		problems.Add("arquivo", "Nenhum arquivo foi submetido.")
	} else if err := ValidateAttachmentUpload(file); err != nil {
		problems.Add("arquivo", err.Error())
	}
	if len(problems) > 0 {
		return nil, problems
	}

	draft, err := s.drafts.Get(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}

	filename := SanitizeFilename(file.Filename)
	key := GenerateDraftAttachmentKey(draft.ID, filename)
	stored, err := s.storage.Upload(ctx, file, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store attachment")
	}

	attachment := &models.Attachment{
		DraftID:  draft.ID,
		FileKey:  stored.Key,
		FileName: filename,
		FileSize: stored.FileSize,
		MimeType: DetectMimeType(file),
	}
	if actor != nil {
		attachment.UploadedByID = &actor.ID
	}

	if err := s.db.WithContext(ctx).Create(attachment).Error; err != nil {
		if delErr := s.storage.Delete(ctx, stored.Key); delErr != nil {
			log.Warnf("[STORAGE] Failed to remove orphaned upload %s: %v", stored.Key, delErr)
		}
		return nil, errors.Wrap(err, "failed to create attachment")
	}

	return attachment, nil
}

// visible restricts attachments to drafts the actor can see
func (s *AttachmentService) visible(ctx context.Context, actor *models.User) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Attachment{})
	if !s.drafts.ScopeToOwner() {
		return query
	}
	if actor == nil {
		return query.Where("1 = 0")
	}
	return query.
		Joins("JOIN rascunhos_contrato ON rascunhos_contrato.id = anexos.draft_id").
		Where("rascunhos_contrato.owner_id = ?", actor.ID)
}

// List returns attachments, optionally only those of one draft, newest first
func (s *AttachmentService) List(ctx context.Context, actor *models.User, draftID string) ([]models.Attachment, error) {
	query := s.visible(ctx, actor)
	if draftID != "" {
		query = query.Where("anexos.draft_id = ?", draftID)
	}

	var attachments []models.Attachment
	if err := query.Order("anexos.uploaded_at DESC").Find(&attachments).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list attachments")
	}
	return attachments, nil
}

// Get returns one attachment
func (s *AttachmentService) Get(ctx context.Context, actor *models.User, id string) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := s.visible(ctx, actor).First(&attachment, "anexos.id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "attachment", "failed to get attachment")
	}
	return &attachment, nil
}

// Open returns the attachment with a reader over its content; the caller closes it
func (s *AttachmentService) Open(ctx context.Context, actor *models.User, id string) (*models.Attachment, io.ReadCloser, error) {
	attachment, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}

	reader, _, err := s.storage.Get(ctx, attachment.FileKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open attachment")
	}
	return attachment, reader, nil
}

// Delete removes the attachment row and its stored file
func (s *AttachmentService) Delete(ctx context.Context, actor *models.User, id string) error {
	attachment, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Attachment{}, "id = ?", attachment.ID).Error; err != nil {
		return errors.Wrap(err, "failed to delete attachment")
	}
	if err := s.storage.Delete(ctx, attachment.FileKey); err != nil {
		log.Warnf("[STORAGE] Failed to delete attachment file %s: %v", attachment.FileKey, err)
	}
	return nil
}
