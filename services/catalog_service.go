package services

import (
	"context"
	"encoding/json"
	"strings"

	"srv_contratos/models"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QualificationTemplateInput is the writable shape of a qualification template
type QualificationTemplateInput struct {
	Name              *string  `json:"nome" validate:"omitempty,max=100"`
	IsOrganization    *bool    `json:"is_pessoa_juridica"`
	TemplateHTML      *string  `json:"template_html"`
	RequiredVariables []string `json:"variaveis_necessarias"`
}

// PartyRoleTypeInput is the writable shape of a party role
type PartyRoleTypeInput struct {
	Name *string `json:"nome" validate:"omitempty,max=100"`
}

// ClauseInput is the writable shape of a clause
type ClauseInput struct {
	Title              *string `json:"titulo" validate:"omitempty,max=255"`
	Body               *string `json:"conteudo_padrao"`
	RequiresAttachment *bool   `json:"requer_anexo"`
}

// ContractTypeInput is the writable shape of a contract type.
// Related roles and clauses are referenced by id.
type ContractTypeInput struct {
	Name               *string  `json:"nome" validate:"omitempty,max=255"`
	Description        *string  `json:"descricao"`
	RequiredRoleIDs    []string `json:"partes_requeridas_ids"`
	SuggestedClauseIDs []string `json:"clausulas_base_ids"`
}

// QualificationRender is the outcome of filling a template for one entity
type QualificationRender struct {
	Text    string   `json:"texto"`
	Missing []string `json:"variaveis_faltantes"`
}

// CatalogService persists the reference catalogs used to assemble drafts
// Clause bodies and template text are stored as written; HTML is sanitized on export.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func requireText(problems FieldErrors, field string, value *string, partial bool) {
	if partial && value == nil {
		return
	}
	if value == nil || strings.TrimSpace(*value) == "" {
		problems.Add(field, "Este campo é obrigatório.")
	}
}

func collectProblems(input interface{}) (FieldErrors, error) {
	if err := validateStruct(input); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return nil, err
		}
		return fe, nil
	}
	return FieldErrors{}, nil
}

func notFoundOr(err error, resource, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError{Resource: resource}
	}
	return errors.Wrap(err, action)
}

// Qualification templates

func (s *CatalogService) ListQualificationTemplates(ctx context.Context) ([]models.QualificationTemplate, error) {
	var items []models.QualificationTemplate
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list qualification templates")
	}
	return items, nil
}

func (s *CatalogService) GetQualificationTemplate(ctx context.Context, id string) (*models.QualificationTemplate, error) {
	var item models.QualificationTemplate
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "qualification template", "failed to get qualification template")
	}
	return &item, nil
}

func (s *CatalogService) CreateQualificationTemplate(ctx context.Context, input QualificationTemplateInput) (*models.QualificationTemplate, error) {
	item := &models.QualificationTemplate{}
	if err := s.applyQualificationTemplate(item, input, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create qualification template")
	}
	return item, nil
}

func (s *CatalogService) UpdateQualificationTemplate(ctx context.Context, id string, input QualificationTemplateInput, partial bool) (*models.QualificationTemplate, error) {
	item, err := s.GetQualificationTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyQualificationTemplate(item, input, partial); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update qualification template")
	}
	return item, nil
}

func (s *CatalogService) DeleteQualificationTemplate(ctx context.Context, id string) error {
	return deleteByID(s.db.WithContext(ctx), &models.QualificationTemplate{}, id, "qualification template")
}

func (s *CatalogService) applyQualificationTemplate(item *models.QualificationTemplate, input QualificationTemplateInput, partial bool) error {
	problems, err := collectProblems(input)
	if err != nil {
		return err
	}
	requireText(problems, "nome", input.Name, partial)
	requireText(problems, "template_html", input.TemplateHTML, partial)
	if len(problems) > 0 {
		return problems
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.IsOrganization != nil {
		item.IsOrganization = *input.IsOrganization
	} else if !partial {
		item.IsOrganization = false
	}
	if input.TemplateHTML != nil {
		item.TemplateHTML = *input.TemplateHTML
	}

	switch {
	case input.RequiredVariables != nil:
		names := make([]string, 0, len(input.RequiredVariables))
		for _, v := range input.RequiredVariables {
			if n := NormalizeVariableName(v); n != "" {
				names = append(names, n)
			}
		}
		item.RequiredVariables = mustJSON(names)
	case !partial || input.TemplateHTML != nil:
		// Derived from the placeholders actually used
		item.RequiredVariables = mustJSON(PlaceholderNames(item.TemplateHTML))
	}
	return nil
}

// RenderQualification fills a template with an entity's data
func (s *CatalogService) RenderQualification(ctx context.Context, templateID, entityID string) (*QualificationRender, error) {
	tmpl, err := s.GetQualificationTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	var entity models.Entity
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newFieldError("entidade", "Entidade não encontrada.")
		}
		return nil, errors.Wrap(err, "failed to get entity")
	}

	values := EntityTemplateValues(&entity)
	text, missing := RenderTemplate(tmpl.TemplateHTML, values)

	var required []string
	_ = json.Unmarshal(tmpl.RequiredVariables, &required)
	seen := map[string]struct{}{}
	for _, m := range missing {
		seen[m] = struct{}{}
	}
	for _, r := range required {
		name := NormalizeVariableName(r)
		if values[name] == "" {
			seen[name] = struct{}{}
		}
	}

	return &QualificationRender{Text: text, Missing: sortedKeys(seen)}, nil
}

// Party role types

func (s *CatalogService) ListPartyRoleTypes(ctx context.Context) ([]models.PartyRoleType, error) {
	var items []models.PartyRoleType
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list party role types")
	}
	return items, nil
}

func (s *CatalogService) GetPartyRoleType(ctx context.Context, id string) (*models.PartyRoleType, error) {
	var item models.PartyRoleType
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "party role type", "failed to get party role type")
	}
	return &item, nil
}

func (s *CatalogService) CreatePartyRoleType(ctx context.Context, input PartyRoleTypeInput) (*models.PartyRoleType, error) {
	item := &models.PartyRoleType{}
	if err := applyPartyRoleType(item, input, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create party role type")
	}
	return item, nil
}

func (s *CatalogService) UpdatePartyRoleType(ctx context.Context, id string, input PartyRoleTypeInput, partial bool) (*models.PartyRoleType, error) {
	item, err := s.GetPartyRoleType(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPartyRoleType(item, input, partial); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update party role type")
	}
	return item, nil
}

// DeletePartyRoleType removes the role and unlinks it from contract types
func (s *CatalogService) DeletePartyRoleType(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tipos_contrato_partes_requeridas WHERE party_role_type_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to unlink party role type")
		}
		return deleteByID(tx, &models.PartyRoleType{}, id, "party role type")
	})
}

func applyPartyRoleType(item *models.PartyRoleType, input PartyRoleTypeInput, partial bool) error {
	problems, err := collectProblems(input)
	if err != nil {
		return err
	}
	requireText(problems, "nome", input.Name, partial)
	if len(problems) > 0 {
		return problems
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	return nil
}

// Clauses

func (s *CatalogService) ListClauses(ctx context.Context) ([]models.ClauseText, error) {
	var items []models.ClauseText
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list clauses")
	}
	return items, nil
}

func (s *CatalogService) GetClause(ctx context.Context, id string) (*models.ClauseText, error) {
	var item models.ClauseText
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "clause", "failed to get clause")
	}
	return &item, nil
}

func (s *CatalogService) CreateClause(ctx context.Context, input ClauseInput) (*models.ClauseText, error) {
	item := &models.ClauseText{}
	if err := s.applyClause(item, input, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create clause")
	}
	return item, nil
}

func (s *CatalogService) UpdateClause(ctx context.Context, id string, input ClauseInput, partial bool) (*models.ClauseText, error) {
	item, err := s.GetClause(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyClause(item, input, partial); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update clause")
	}
	return item, nil
}

// DeleteClause removes the clause and unlinks it from contract types
func (s *CatalogService) DeleteClause(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tipos_contrato_clausulas_base WHERE clause_text_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to unlink clause")
		}
		return deleteByID(tx, &models.ClauseText{}, id, "clause")
	})
}

func (s *CatalogService) applyClause(item *models.ClauseText, input ClauseInput, partial bool) error {
	problems, err := collectProblems(input)
	if err != nil {
		return err
	}
	requireText(problems, "titulo", input.Title, partial)
	requireText(problems, "conteudo_padrao", input.Body, partial)
	if len(problems) > 0 {
		return problems
	}

	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Body != nil {
		item.Body = strings.TrimSpace(*input.Body)
	}
	if input.RequiresAttachment != nil {
		item.RequiresAttachment = *input.RequiresAttachment
	} else if !partial {
		item.RequiresAttachment = false
	}
	return nil
}

// Contract types

func (s *CatalogService) ListContractTypes(ctx context.Context) ([]models.ContractType, error) {
	var items []models.ContractType
	err := s.db.WithContext(ctx).
		Preload("RequiredRoles").
		Preload("SuggestedClauses").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contract types")
	}
	return items, nil
}

func (s *CatalogService) GetContractType(ctx context.Context, id string) (*models.ContractType, error) {
	var item models.ContractType
	err := s.db.WithContext(ctx).
		Preload("RequiredRoles").
		Preload("SuggestedClauses").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "contract type", "failed to get contract type")
	}
	return &item, nil
}

func (s *CatalogService) CreateContractType(ctx context.Context, input ContractTypeInput) (*models.ContractType, error) {
	item := &models.ContractType{}
	if err := s.saveContractType(ctx, item, input, false); err != nil {
		return nil, err
	}
	return s.GetContractType(ctx, item.ID)
}

func (s *CatalogService) UpdateContractType(ctx context.Context, id string, input ContractTypeInput, partial bool) (*models.ContractType, error) {
	item, err := s.GetContractType(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.saveContractType(ctx, item, input, partial); err != nil {
		return nil, err
	}
	return s.GetContractType(ctx, id)
}

// DeleteContractType removes the type; drafts using it keep existing without a type
func (s *CatalogService) DeleteContractType(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.ContractType
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "contract type", "failed to get contract type")
		}

		if err := tx.Model(&models.Draft{}).
			Where("contract_type_id = ?", id).
			Update("contract_type_id", nil).Error; err != nil {
			return errors.Wrap(err, "failed to detach drafts")
		}
		if err := tx.Model(&item).Association("RequiredRoles").Clear(); err != nil {
			return errors.Wrap(err, "failed to unlink roles")
		}
		if err := tx.Model(&item).Association("SuggestedClauses").Clear(); err != nil {
			return errors.Wrap(err, "failed to unlink clauses")
		}
		return deleteByID(tx, &models.ContractType{}, id, "contract type")
	})
}

func (s *CatalogService) saveContractType(ctx context.Context, item *models.ContractType, input ContractTypeInput, partial bool) error {
	problems, err := collectProblems(input)
	if err != nil {
		return err
	}
	requireText(problems, "nome", input.Name, partial)

	var roles []models.PartyRoleType
	if input.RequiredRoleIDs != nil {
		if roles, err = findAllByID[models.PartyRoleType](ctx, s.db, input.RequiredRoleIDs); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}
			problems.Add("partes_requeridas_ids", "Tipo de parte inválido.")
		}
	}
	var clauses []models.ClauseText
	if input.SuggestedClauseIDs != nil {
		if clauses, err = findAllByID[models.ClauseText](ctx, s.db, input.SuggestedClauseIDs); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}
			problems.Add("clausulas_base_ids", "Cláusula inválida.")
		}
	}
	if len(problems) > 0 {
		return problems
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil || !partial {
		item.Description = input.Description
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("RequiredRoles", "SuggestedClauses").Save(item).Error; err != nil {
			return errors.Wrap(err, "failed to save contract type")
		}
		if input.RequiredRoleIDs != nil || !partial {
			if err := replaceAssociation(tx.Model(item).Association("RequiredRoles"), roles); err != nil {
				return errors.Wrap(err, "failed to link roles")
			}
		}
		if input.SuggestedClauseIDs != nil || !partial {
			if err := replaceAssociation(tx.Model(item).Association("SuggestedClauses"), clauses); err != nil {
				return errors.Wrap(err, "failed to link clauses")
			}
		}
		return nil
	})
}

func replaceAssociation[T any](assoc *gorm.Association, items []T) error {
	if len(items) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(items)
}

// findAllByID loads every id or returns ErrNotFound if any is missing
func findAllByID[T any](ctx context.Context, db *gorm.DB, ids []string) ([]T, error) {
	unique := map[string]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := db.WithContext(ctx).Where("id IN ?", sortedKeys(unique)).Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load related records")
	}
	if len(items) != len(unique) {
		return nil, ErrNotFound
	}
	return items, nil
}

func deleteByID(db *gorm.DB, model interface{}, id, resource string) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to delete %s", resource)
	}
	if result.RowsAffected == 0 {
		return NotFoundError{Resource: resource}
	}
	return nil
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
