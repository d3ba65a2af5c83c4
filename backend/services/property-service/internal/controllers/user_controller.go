package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type UserController struct {
	users repositories.UserRepository
}

func NewUserController(repos *repositories.Repositories) *UserController {
	return &UserController{users: repos.Users}
}

// GET /api/v1/me
func (c *UserController) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	u, err := c.users.FindByID(r.Context(), userID)
	respondAs(w, http.StatusOK, "user", u, err, dtos.NewUserFromModel)
}

// PATCH /api/v1/me
func (c *UserController) PatchMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var patch models.UserUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	if patch.Role != nil {
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "Role cannot be changed", nil)
		return
	}
	u, err := c.users.Update(r.Context(), userID, patch)
	respondAs(w, http.StatusOK, "user", u, err, dtos.NewUserFromModel)
}
