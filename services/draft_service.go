package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"srv_contratos/models"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OptionalString distinguishes an absent JSON field from an explicit null
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only called when the key is present
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// DraftInput is the writable shape of a draft. Status is changed only through SetStatus.
type DraftInput struct {
	Title            *string                `json:"titulo_documento" validate:"omitempty,max=255"`
	ContractTypeID   OptionalString         `json:"tipo_contrato"`
	AssignedParties  map[string]interface{} `json:"partes_atribuidas"`
	FilledVariables  map[string]interface{} `json:"variaveis_preenchidas"`
	FinalizedClauses json.RawMessage        `json:"clausulas_finais"`
}

// DraftFilter narrows List results
type DraftFilter struct {
	Status         string
	ContractTypeID string
}

// HistoryItem is the listing projection of a history entry
type HistoryItem struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"usuario"`
	Event     string    `json:"evento"`
	Version   int       `json:"versao"`
}

// HistoryDetail is one history entry with its full snapshot
type HistoryDetail struct {
	HistoryItem
	Snapshot datatypes.JSON `json:"dados_rascunho"`
}

const (
	historySystemUser   = "System"
	historyDefaultEvent = "update"
)

// DraftService manages the draft lifecycle. Every create, update and
// effective status change writes one history entry in the same transaction.
type DraftService struct {
	db           *gorm.DB
	storage      StorageProvider
	scopeToOwner bool
}

// NewDraftService creates a new draft service instance.
// With scopeToOwner set, each actor only sees the drafts they created.
func NewDraftService(db *gorm.DB, storage StorageProvider, scopeToOwner bool) *DraftService {
	return &DraftService{db: db, storage: storage, scopeToOwner: scopeToOwner}
}

// ScopeToOwner reports whether drafts are filtered by owner
func (s *DraftService) ScopeToOwner() bool {
	return s.scopeToOwner
}

// scoped restricts a drafts query to what actor may see
func (s *DraftService) scoped(query *gorm.DB, actor *models.User) *gorm.DB {
	if !s.scopeToOwner {
		return query
	}
	if actor == nil {
		return query.Where("1 = 0")
	}
	return query.Where("rascunhos_contrato.owner_id = ?", actor.ID)
}

// List returns visible drafts, most recently updated first
func (s *DraftService) List(ctx context.Context, actor *models.User, filter DraftFilter) ([]models.Draft, error) {
	query := s.scoped(s.db.WithContext(ctx).Model(&models.Draft{}), actor)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ContractTypeID != "" {
		query = query.Where("contract_type_id = ?", filter.ContractTypeID)
	}

	var drafts []models.Draft
	if err := query.Order("updated_at DESC").Find(&drafts).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list drafts")
	}
	return drafts, nil
}

// Get returns one visible draft
func (s *DraftService) Get(ctx context.Context, actor *models.User, id string) (*models.Draft, error) {
	return s.find(s.db.WithContext(ctx), actor, id)
}

func (s *DraftService) find(tx *gorm.DB, actor *models.User, id string) (*models.Draft, error) {
	var draft models.Draft
	if err := s.scoped(tx, actor).First(&draft, "rascunhos_contrato.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "draft"}
		}
		return nil, errors.Wrap(err, "failed to get draft")
	}
	return &draft, nil
}

// Create stores a new draft in RASCUNHO status and records the "creation" entry
func (s *DraftService) Create(ctx context.Context, actor *models.User, input DraftInput) (*models.Draft, error) {
	draft := &models.Draft{Status: models.DraftStatusDraft}
	if err := s.apply(s.db.WithContext(ctx), draft, input, false); err != nil {
		return nil, err
	}
	if s.scopeToOwner && actor != nil {
		draft.OwnerID = &actor.ID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(draft).Error; err != nil {
			return errors.Wrap(err, "failed to create draft")
		}
		return s.recordHistory(tx, draft, actor, models.HistoryEventCreated)
	})
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// Update replaces (partial=false) or patches (partial=true) a draft and
// records an "updated" entry
func (s *DraftService) Update(ctx context.Context, actor *models.User, id string, input DraftInput, partial bool) (*models.Draft, error) {
	var draft *models.Draft
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if draft, err = s.find(tx, actor, id); err != nil {
			return err
		}
		if err := s.apply(tx, draft, input, partial); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(draft).Error; err != nil {
			return errors.Wrap(err, "failed to update draft")
		}
		return s.recordHistory(tx, draft, actor, models.HistoryEventUpdated)
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// SetStatus moves a draft to status. Any recognized status may follow any other.
// Setting the current status is a no-op and writes no history.
func (s *DraftService) SetStatus(ctx context.Context, actor *models.User, id, status string) (*models.Draft, error) {
	var draft *models.Draft
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if draft, err = s.find(tx, actor, id); err != nil {
			return err
		}
		if !models.IsValidDraftStatus(status) {
			return newFieldError("status", "Status inválido. Status válidos são: "+strings.Join(models.DraftStatuses, ", "))
		}
		if draft.Status == status {
			return nil
		}

		previous := draft.Status
		if err := tx.Model(draft).Update("status", status).Error; err != nil {
			return errors.Wrap(err, "failed to update draft status")
		}
		draft.Status = status
		return s.recordHistory(tx, draft, actor, models.StatusChangeEvent(previous, status))
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// ListHistory returns the draft's history, newest first
func (s *DraftService) ListHistory(ctx context.Context, actor *models.User, id string) ([]HistoryItem, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("draft_id = ?", id).
		Order("version DESC").
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list history")
	}

	items := make([]HistoryItem, 0, len(entries))
	for i := range entries {
		items = append(items, historyItem(&entries[i]))
	}
	return items, nil
}

// GetHistoryEntry returns one version of the draft with its snapshot
func (s *DraftService) GetHistoryEntry(ctx context.Context, actor *models.User, draftID, entryID string) (*HistoryDetail, error) {
	if _, err := s.Get(ctx, actor, draftID); err != nil {
		return nil, err
	}

	var entry models.HistoryEntry
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("draft_id = ?", draftID).
		First(&entry, "id = ?", entryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "history entry"}
		}
		return nil, errors.Wrap(err, "failed to get history entry")
	}

	return &HistoryDetail{HistoryItem: historyItem(&entry), Snapshot: entry.Snapshot}, nil
}

// Delete removes the draft with its attachments and history, then the stored files
func (s *DraftService) Delete(ctx context.Context, actor *models.User, id string) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := s.find(tx, actor, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Attachment{}).Where("draft_id = ?", draft.ID).Pluck("file_key", &keys).Error; err != nil {
			return errors.Wrap(err, "failed to list attachments")
		}
		if err := tx.Where("draft_id = ?", draft.ID).Delete(&models.Attachment{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete attachments")
		}
		if err := tx.Where("draft_id = ?", draft.ID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete history")
		}
		if err := tx.Delete(&models.Draft{}, "id = ?", draft.ID).Error; err != nil {
			return errors.Wrap(err, "failed to delete draft")
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Stored files are removed only after the rows are gone
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Warnf("[STORAGE] Failed to delete attachment %s of draft %s: %v", key, id, err)
		}
	}
	return nil
}

// apply validates input and copies it onto draft
func (s *DraftService) apply(tx *gorm.DB, draft *models.Draft, input DraftInput, partial bool) error {
	problems, err := collectProblems(input)
	if err != nil {
		return err
	}

	clauses := bytes.TrimSpace(input.FinalizedClauses)
	clausesSet := len(clauses) > 0 && !bytes.Equal(clauses, []byte("null"))
	if clausesSet && clauses[0] != '[' {
		problems.Add("clausulas_finais", "Esperava uma lista de itens.")
	}

	if input.ContractTypeID.Set && input.ContractTypeID.Value != nil && *input.ContractTypeID.Value != "" {
		var count int64
		if err := tx.Model(&models.ContractType{}).Where("id = ?", *input.ContractTypeID.Value).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check contract type")
		}
		if count == 0 {
			problems.Add("tipo_contrato", "Tipo de contrato inválido.")
		}
	}
	if len(problems) > 0 {
		return problems
	}

	if input.Title != nil {
		draft.Title = strings.TrimSpace(*input.Title)
	} else if !partial {
		draft.Title = ""
	}

	if input.ContractTypeID.Set {
		draft.ContractTypeID = nil
		if v := input.ContractTypeID.Value; v != nil && *v != "" {
			id := *v
			draft.ContractTypeID = &id
		}
	} else if !partial {
		draft.ContractTypeID = nil
	}

	if input.AssignedParties != nil {
		draft.AssignedParties = input.AssignedParties
	} else if !partial || draft.AssignedParties == nil {
		draft.AssignedParties = datatypes.JSONMap{}
	}

	if input.FilledVariables != nil {
		draft.FilledVariables = input.FilledVariables
	} else if !partial || draft.FilledVariables == nil {
		draft.FilledVariables = datatypes.JSONMap{}
	}

	if clausesSet {
		draft.FinalizedClauses = datatypes.JSON(append([]byte(nil), clauses...))
	} else if !partial || len(draft.FinalizedClauses) == 0 {
		draft.FinalizedClauses = datatypes.JSON("[]")
	}

	return nil
}

// recordHistory appends the next version of the draft's snapshot
func (s *DraftService) recordHistory(tx *gorm.DB, draft *models.Draft, actor *models.User, event string) error {
	var latest int
	if err := tx.Model(&models.HistoryEntry{}).
		Where("draft_id = ?", draft.ID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&latest).Error; err != nil {
		return errors.Wrap(err, "failed to read history version")
	}

	snapshot, err := json.Marshal(draft.Snapshot())
	if err != nil {
		return errors.Wrap(err, "failed to encode draft snapshot")
	}

	entry := &models.HistoryEntry{
		DraftID:  draft.ID,
		Version:  latest + 1,
		Event:    &event,
		Snapshot: datatypes.JSON(snapshot),
	}
	if actor != nil {
		entry.UserID = &actor.ID
	}

	if err := tx.Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to record draft history")
	}
	return nil
}

func historyItem(entry *models.HistoryEntry) HistoryItem {
	item := HistoryItem{
		ID:        entry.ID,
		Timestamp: entry.Timestamp,
		User:      historySystemUser,
		Event:     historyDefaultEvent,
		Version:   entry.Version,
	}
	if entry.User != nil {
		item.User = entry.User.Username
	}
	if entry.Event != nil && *entry.Event != "" {
		item.Event = *entry.Event
	}
	return item
}
