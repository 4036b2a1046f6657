package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/permissions"
	"reviewdb/proj/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

type classifierQuery struct {
	paginationQuery
	Search string `schema:"search" validate:"omitempty,max=256"`
}

func (app *Application) getCategories(w http.ResponseWriter, r *http.Request) {
	var query classifierQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	if errs := validator.ValidateStruct(app.validator, &query); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	f := query.filters("")
	categories, total, err := app.services.Catalog.ListCategories(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, listEnvelop("categories", categories, total, f), "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Create, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	var input struct {
		Name string `json:"name" validate:"required,max=256"`
		Slug string `json:"slug" validate:"required,max=50,slugfield"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	category, err := app.services.Catalog.CreateCategory(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryAlreadyExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Delete, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	slug := chi.URLParam(r, "slug")
	if err := app.services.Catalog.DeleteCategory(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getGenres(w http.ResponseWriter, r *http.Request) {
	var query classifierQuery
	if !app.readQuery(w, r, &query) {
		return
	}
	if errs := validator.ValidateStruct(app.validator, &query); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	f := query.filters("")
	genres, total, err := app.services.Catalog.ListGenres(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, listEnvelop("genres", genres, total, f), "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Create, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	var input struct {
		Name string `json:"name" validate:"required,max=256"`
		Slug string `json:"slug" validate:"required,max=50,slugfield"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	genre, err := app.services.Catalog.CreateGenre(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrGenreAlreadyExists) {
			app.Http.Conflict(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Delete, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	slug := chi.URLParam(r, "slug")
	if err := app.services.Catalog.DeleteGenre(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getTitles(w http.ResponseWriter, r *http.Request) {
	var query struct {
		paginationQuery
		Name     string `schema:"name" validate:"omitempty,max=256"`
		Year     int32  `schema:"year" validate:"omitempty,titleyear"`
		Category string `schema:"category" validate:"omitempty,max=50,slugfield"`
		Genre    string `schema:"genre" validate:"omitempty,max=50,slugfield"`
		Sort     string `schema:"sort" validate:"omitempty,sortbytitlefield"`
	}
	if !app.readQuery(w, r, &query) {
		return
	}
	if errs := validator.ValidateStruct(app.validator, &query); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	if query.Sort == "" {
		query.Sort = "id"
	}
	f := filters.TitleFilters{
		Filters:      query.filters(query.Sort, "id", "name", "year"),
		Name:         query.Name,
		Year:         query.Year,
		CategorySlug: query.Category,
		GenreSlug:    query.Genre,
	}
	titles, total, err := app.services.Catalog.ListTitles(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, listEnvelop("titles", titles, total, f.Filters), "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	title, err := app.services.Catalog.GetTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Create, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	var input struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        int32    `json:"year" validate:"titleyear"`
		Description *string  `json:"description"`
		Category    string   `json:"category" validate:"required,max=50,slugfield"`
		Genres      []string `json:"genre" validate:"required,min=1,dive,max=50,slugfield"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	title, err := app.services.Catalog.CreateTitle(
		r.Context(), input.Name, input.Year, input.Description, input.Category, input.Genres,
	)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrCategoryNotFound), errors.Is(err, catalog.ErrGenreNotFound):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Update, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var input struct {
		Name        string   `json:"name" validate:"omitempty,max=256"`
		Year        int32    `json:"year" validate:"omitempty,titleyear"`
		Description *string  `json:"description"`
		Category    *string  `json:"category" validate:"omitempty,max=50,slugfield"`
		Genres      []string `json:"genre" validate:"omitempty,min=1,dive,max=50,slugfield"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	title, err := app.services.Catalog.UpdateTitle(
		r.Context(), id, input.Name, input.Year, input.Description, input.Category, input.Genres,
	)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrTitleNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, catalog.ErrCategoryNotFound), errors.Is(err, catalog.ErrGenreNotFound):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Delete, permissions.Resource{Class: permissions.Catalog}) {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Catalog.DeleteTitle(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
