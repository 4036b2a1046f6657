package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,max=150,username,notreserved"`
		Email    string `json:"email" validate:"required,email,max=254"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	res, err := app.services.Auth.RequestCode(r.Context(), input.Username, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailMismatch), errors.Is(err, auth.ErrUsernameMismatch):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"signup": res}, "Confirmation code sent")
}

func (app *Application) getToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username         string `json:"username" validate:"required,max=150"`
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	token, err := app.services.Auth.VerifyCode(r.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, auth.ErrInvalidCode):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
