package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/permissions"
	"reviewdb/proj/internal/services/reviews"
)

func (app *Application) getReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
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
	items, total, err := app.services.Reviews.ListForTitle(r.Context(), titleID, f)
	if err != nil {
		if errors.Is(err, reviews.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, listEnvelop("reviews", items, total, f), "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Create, permissions.Resource{Class: permissions.UserContent}) {
		return
	}
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var input struct {
		Text  string `json:"text" validate:"required"`
		Score int32  `json:"score" validate:"required,min=1,max=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	author := app.contextUser(r)
	review, err := app.services.Reviews.Submit(r.Context(), titleID, author.ID, input.Text, input.Score)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrTitleNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, reviews.ErrDuplicateReview), errors.Is(err, reviews.ErrInvalidScore):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), titleID, id)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), titleID, id)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	resource := permissions.Resource{Class: permissions.UserContent, OwnerID: review.AuthorID}
	if !app.requirePermission(w, r, permissions.Update, resource) {
		return
	}
	var input struct {
		Text  string `json:"text" validate:"omitempty"`
		Score int32  `json:"score" validate:"omitempty,min=1,max=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	updated, err := app.services.Reviews.Update(r.Context(), titleID, id, input.Text, input.Score)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrReviewNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, reviews.ErrInvalidScore):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"review": updated}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), titleID, id)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	resource := permissions.Resource{Class: permissions.UserContent, OwnerID: review.AuthorID}
	if !app.requirePermission(w, r, permissions.Delete, resource) {
		return
	}
	if err := app.services.Reviews.Delete(r.Context(), titleID, id); err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getComments(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
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
	items, total, err := app.services.Comments.ListForReview(r.Context(), reviewID, f)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, listEnvelop("comments", items, total, f), "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	if !app.requirePermission(w, r, permissions.Create, permissions.Resource{Class: permissions.UserContent}) {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	var input struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	author := app.contextUser(r)
	comment, err := app.services.Comments.Create(r.Context(), reviewID, author.ID, input.Text)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	comment, err := app.services.Comments.Get(r.Context(), reviewID, id)
	if err != nil {
		if errors.Is(err, reviews.ErrCommentNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	comment, err := app.services.Comments.Get(r.Context(), reviewID, id)
	if err != nil {
		if errors.Is(err, reviews.ErrCommentNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	resource := permissions.Resource{Class: permissions.UserContent, OwnerID: comment.AuthorID}
	if !app.requirePermission(w, r, permissions.Update, resource) {
		return
	}
	var input struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, &input); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	updated, err := app.services.Comments.Update(r.Context(), reviewID, id, input.Text)
	if err != nil {
		if errors.Is(err, reviews.ErrCommentNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"comment": updated}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	comment, err := app.services.Comments.Get(r.Context(), reviewID, id)
	if err != nil {
		if errors.Is(err, reviews.ErrCommentNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	resource := permissions.Resource{Class: permissions.UserContent, OwnerID: comment.AuthorID}
	if !app.requirePermission(w, r, permissions.Delete, resource) {
		return
	}
	if err := app.services.Comments.Delete(r.Context(), reviewID, id); err != nil {
		if errors.Is(err, reviews.ErrCommentNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
