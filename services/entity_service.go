package services

import (
	"context"
	"strings"

	"srv_contratos/models"
	"srv_contratos/validators"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityInput is the writable shape of a party record.
// Nil fields are left untouched on partial updates and cleared on full ones.
type EntityInput struct {
	Name              *string                `json:"nome" validate:"omitempty,max=255"`
	IsOrganization    *bool                  `json:"is_pessoa_juridica"`
	PersonTaxID       *string                `json:"cpf" validate:"omitempty,cpf"`
	IdentityDocument  *string                `json:"rg" validate:"omitempty,rg"`
	OrganizationTaxID *string                `json:"cnpj" validate:"omitempty,cnpj"`
	Address           *string                `json:"endereco"`
	Attributes        map[string]interface{} `json:"outros_dados"`
}

// EntityFilter narrows List results
type EntityFilter struct {
	Search         string
	IsOrganization *bool
}

// EntityService persists party records
type EntityService struct {
	db *gorm.DB
}

// NewEntityService creates a new entity service instance
func NewEntityService(db *gorm.DB) *EntityService {
	return &EntityService{db: db}
}

// List returns entities ordered by name
func (s *EntityService) List(ctx context.Context, filter EntityFilter) ([]models.Entity, error) {
	query := s.db.WithContext(ctx).Model(&models.Entity{})

	if filter.IsOrganization != nil {
		query = query.Where("is_organization = ?", *filter.IsOrganization)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		if digits := validators.OnlyDigits(search); digits != "" {
			digitsLike := "%" + digits + "%"
			query = query.Where("LOWER(name) LIKE ? OR person_tax_id LIKE ? OR organization_tax_id LIKE ?", like, digitsLike, digitsLike)
		} else {
			query = query.Where("LOWER(name) LIKE ?", like)
		}
	}

	var entities []models.Entity
	if err := query.Order("name ASC").Find(&entities).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list entities")
	}
	return entities, nil
}

// Get returns one entity
func (s *EntityService) Get(ctx context.Context, id string) (*models.Entity, error) {
	var entity models.Entity
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "entity"}
		}
		return nil, errors.Wrap(err, "failed to get entity")
	}
	return &entity, nil
}

// Create validates and stores a new entity
func (s *EntityService) Create(ctx context.Context, input EntityInput) (*models.Entity, error) {
	entity := &models.Entity{}
	if err := s.apply(ctx, entity, input, false); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		if fe := s.uniqueViolation(ctx, entity, err); fe != nil {
			return nil, fe
		}
		return nil, errors.Wrap(err, "failed to create entity")
	}
	return entity, nil
}

// Update replaces (partial=false) or patches (partial=true) an entity
func (s *EntityService) Update(ctx context.Context, id string, input EntityInput, partial bool) (*models.Entity, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, entity, input, partial); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		if fe := s.uniqueViolation(ctx, entity, err); fe != nil {
			return nil, fe
		}
		return nil, errors.Wrap(err, "failed to update entity")
	}
	return entity, nil
}

// Delete removes an entity. Drafts reference entities loosely and are not touched.
func (s *EntityService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Entity{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete entity")
	}
	if result.RowsAffected == 0 {
		return NotFoundError{Resource: "entity"}
	}
	return nil
}

// apply validates input and copies it onto entity. All field problems are
// collected before returning.
func (s *EntityService) apply(ctx context.Context, entity *models.Entity, input EntityInput, partial bool) error {
	problems := FieldErrors{}
	if err := validateStruct(input); err != nil {
		var fe FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		problems = fe
	}

	if !partial || input.Name != nil {
		if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
			problems.Add("nome", "Este campo é obrigatório.")
		}
	}
	if len(problems) > 0 {
		return problems
	}

	if !partial {
		*entity = models.Entity{ID: entity.ID, CreatedAt: entity.CreatedAt}
	}
	if input.Name != nil {
		entity.Name = strings.TrimSpace(*input.Name)
	}
	if input.IsOrganization != nil {
		entity.IsOrganization = *input.IsOrganization
	}
	if input.PersonTaxID != nil {
		entity.PersonTaxID = optionalString(validators.NormalizePersonTaxID(*input.PersonTaxID))
	}
	if input.IdentityDocument != nil {
		entity.IdentityDocument = optionalString(validators.NormalizeIdentityDocument(*input.IdentityDocument))
	}
	if input.OrganizationTaxID != nil {
		entity.OrganizationTaxID = optionalString(validators.NormalizeOrganizationTaxID(*input.OrganizationTaxID))
	}
	if input.Address != nil {
		entity.Address = optionalString(strings.TrimSpace(*input.Address))
	}
	if input.Attributes != nil {
		entity.Attributes = input.Attributes
	}
	if entity.Attributes == nil {
		entity.Attributes = datatypes.JSONMap{}
	}

	// Only the identifiers of the selected kind are kept
	if entity.IsOrganization {
		entity.PersonTaxID = nil
		entity.IdentityDocument = nil
	} else {
		entity.OrganizationTaxID = nil
	}

	return s.checkUnique(ctx, entity)
}

const (
	cpfTaken  = "Já existe uma entidade com este CPF."
	cnpjTaken = "Já existe uma entidade com este CNPJ."
)

// uniqueViolation maps a unique index failure from a concurrent write to the
// field errors checkUnique reports. It returns nil for any other error.
func (s *EntityService) uniqueViolation(ctx context.Context, entity *models.Entity, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) && !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nil
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, "person_tax_id"):
		return newFieldError("cpf", cpfTaken)
	case strings.Contains(msg, "organization_tax_id"):
		return newFieldError("cnpj", cnpjTaken)
	}
	// Translated errors carry no column; the committed row tells which one clashed
	return s.checkUnique(ctx, entity)
}

func (s *EntityService) checkUnique(ctx context.Context, entity *models.Entity) error {
	problems := FieldErrors{}

	exists := func(column, value string) (bool, error) {
		var count int64
		query := s.db.WithContext(ctx).Model(&models.Entity{}).Where(column+" = ?", value)
		if entity.ID != "" {
			query = query.Where("id <> ?", entity.ID)
		}
		if err := query.Count(&count).Error; err != nil {
			return false, errors.Wrap(err, "failed to check uniqueness")
		}
		return count > 0, nil
	}

	if entity.PersonTaxID != nil {
		taken, err := exists("person_tax_id", *entity.PersonTaxID)
		if err != nil {
			return err
		}
		if taken {
			problems.Add("cpf", cpfTaken)
		}
	}
	if entity.OrganizationTaxID != nil {
		taken, err := exists("organization_tax_id", *entity.OrganizationTaxID)
		if err != nil {
			return err
		}
		if taken {
			problems.Add("cnpj", cnpjTaken)
		}
	}

	return problems.OrNil()
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
