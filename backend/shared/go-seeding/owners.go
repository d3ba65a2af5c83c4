package seeding

import (
	"context"
	"errors"
	"fmt"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const (
	DefaultOwnerEmail = "team@keystone.example.com"
	DefaultOwnerPhone = "+12565550000"
)

// SeedDefaultOwner creates the demo owner account if needed and returns it.
func SeedDefaultOwner(ctx context.Context, users repositories.UserRepository) (*models.User, bool, error) {
	if existing, err := users.FindByEmail(ctx, DefaultOwnerEmail); err != nil {
		return nil, false, fmt.Errorf("check existing owner: %w", err)
	} else if existing != nil {
		utils.Logger.Info("seeding: default owner already present; skipping")
		return existing, false, nil
	}

	owner, err := users.Create(ctx, models.UserInput{UserFields: models.UserFields{
		Email:           DefaultOwnerEmail,
		FirstName:       "Demo",
		LastName:        "Owner",
		PhoneNumber:     utils.Ptr(DefaultOwnerPhone),
		Role:            models.UserRoleOwner,
		BusinessName:    "Demo Property Management",
		BusinessAddress: "30 Gates Mill St NW",
		City:            "Huntsville",
		State:           "AL",
		ZipCode:         "35806",
	}})
	if err != nil {
		// Another instance won the race.
		if errors.Is(err, repositories.ErrDuplicate) {
			utils.Logger.Infof("seeding: owner %s already exists; skipping", DefaultOwnerEmail)
			existing, findErr := users.FindByEmail(ctx, DefaultOwnerEmail)
			return existing, false, findErr
		}
		return nil, false, fmt.Errorf("create default owner: %w", err)
	}

	utils.Logger.Infof("seeding: created default owner id=%s", owner.ID)
	return owner, true, nil
}
