package services

import (
	"context"
	"os"

	"srv_contratos/models"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DefaultPartyRoleTypes are the roles offered on a fresh database
var DefaultPartyRoleTypes = []string{
	"Contratante",
	"Contratado",
	"Locador",
	"Locatário",
	"Fiador",
	"Testemunha",
}

// SeedAdminFromEnv creates a staff user from environment variables.
// Only runs if ADMIN_USERNAME and ADMIN_PASSWORD are set
// and no staff user exists yet.
func SeedAdminFromEnv(ctx context.Context, db *gorm.DB, auth *AuthService) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	email := os.Getenv("ADMIN_EMAIL")

	// Skip if env vars not set
	if username == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count staff users")
	}
	if count > 0 {
		log.Info("[SEED] Staff user already exists, skipping seed")
		return nil
	}

	user, err := auth.CreateUser(ctx, username, email, password, true)
	if err != nil {
		return errors.Wrap(err, "failed to seed admin user")
	}

	log.Infof("[SEED] Created admin user: %s", user.Username)
	return nil
}

// SeedDefaultPartyRoleTypes fills an empty party role table with DefaultPartyRoleTypes
func SeedDefaultPartyRoleTypes(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.PartyRoleType{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count party role types")
	}
	if count > 0 {
		return nil
	}

	roles := make([]models.PartyRoleType, 0, len(DefaultPartyRoleTypes))
	for _, name := range DefaultPartyRoleTypes {
		roles = append(roles, models.PartyRoleType{Name: name})
	}
	if err := db.WithContext(ctx).Create(&roles).Error; err != nil {
		return errors.Wrap(err, "failed to seed party role types")
	}

	log.Infof("[SEED] Created %d party role types", len(roles))
	return nil
}
