package main

import (
	"net/http"

	"reviewdb/proj/internal/domain/filters"

	"github.com/go-chi/render"
)

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Status  string `json:"status"`
		Debug   bool   `json:"debug"`
		Version string `json:"version"`
	}{
		Status:  "available",
		Debug:   app.cfg.Debug,
		Version: version,
	})
}

const defaultPageSize = 20

type paginationQuery struct {
	Page     int `schema:"page" validate:"omitempty,min=1"`
	PageSize int `schema:"page_size" validate:"omitempty,min=1,max=100"`
}

func (q paginationQuery) filters(sort string, safelist ...string) filters.Filters {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	return filters.Filters{
		Page:         q.Page,
		PageSize:     q.PageSize,
		Sort:         sort,
		SortSafelist: safelist,
	}
}

func listEnvelop(key string, items any, total int, f filters.Filters) envelop {
	return envelop{
		key:             items,
		"total_records": total,
		"page":          f.Page,
		"page_size":     f.PageSize,
	}
}
