// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package pagination reads page windows from query strings and describes them
in list responses.

Pages are 1-indexed. A request never fails because of a bad window: values
that do not parse fall back to the defaults and oversized limits are capped.
*/
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is one page window.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows before the window, for SQL OFFSET.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes this window over a listing of total rows.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the "meta" block of a paginated response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta derives the page count. A non-positive limit yields zero pages.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

/*
FromRequest reads the "page" and "limit" query parameters.

Missing, malformed or non-positive values take the defaults. A limit above
[MaxLimit] is capped at MaxLimit.
*/
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	params := Params{
		Page:  positiveOr(query.Get("page"), DefaultPage),
		Limit: positiveOr(query.Get("limit"), DefaultLimit),
	}
	params.Limit = min(params.Limit, MaxLimit)

	return params
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
