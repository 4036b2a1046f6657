package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/permissions"
	"reviewdb/proj/internal/services/users"

	"github.com/go-chi/chi/v5"
)

func (app *Application) getUsers(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.SafeRead, permissions.Resource{Class: permissions.Account}) {
		return
	}
	var query paginationQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	if errs := validator.ValidateStruct(app.validator, &query); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	f := query.filters("")
	items, total, err := app.services.Users.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, listEnvelop("users", items, total, f), "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Create, permissions.Resource{Class: permissions.Account}) {
		return
	}
	var input struct {
		Username string `json:"username" validate:"required,max=150,username,notreserved"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Role     string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Users.Create(r.Context(), input.Username, input.Email, input.Role)
	if err != nil {
		if errors.Is(err, users.ErrUserAlreadyExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.SafeRead, permissions.Resource{Class: permissions.Account}) {
		return
	}
	username := chi.URLParam(r, "username")
	user, err := app.services.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Update, permissions.Resource{Class: permissions.Account}) {
		return
	}
	username := chi.URLParam(r, "username")
	var input struct {
		Email string  `json:"email" validate:"omitempty,email,max=254"`
		Bio   *string `json:"bio"`
		Role  *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Users.Update(r.Context(), username, users.UpdateParams{
		Email: input.Email,
		Bio:   input.Bio,
		Role:  input.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, users.ErrUserAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Delete, permissions.Resource{Class: permissions.Account}) {
		return
	}
	username := chi.URLParam(r, "username")
	if err := app.services.Users.Delete(r.Context(), username); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getProfile(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.contextUser(r)}, "")
}

// updateProfile is the self-service endpoint: role changes go through the
// admin API only, so any "role" key in the body is rejected by readJSON's
// unknown-field handling.
func (app *Application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string  `json:"email" validate:"omitempty,email,max=254"`
		Bio   *string `json:"bio"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	updated, err := app.services.Users.Update(r.Context(), user.Username, users.UpdateParams{
		Email: input.Email,
		Bio:   input.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, users.ErrUserAlreadyExists):
			app.Http.Conflict(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"user": updated}, "")
}
