// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dhirajsah18/v-Tube/pkg/pagination"
)

/*
TestFromRequest_Window falls back to defaults and caps oversized limits.
*/
func TestFromRequest_Window(t *testing.T) {
	cases := map[string]pagination.Params{
		"":                    {Page: 1, Limit: 20},
		"?page=3&limit=10":    {Page: 3, Limit: 10},
		"?page=-1&limit=1000": {Page: 1, Limit: 100},
		"?page=abc&limit=0":   {Page: 1, Limit: 20},
		"?limit=100":          {Page: 1, Limit: 100},
	}

	for query, want := range cases {
		request := httptest.NewRequest("GET", "/likes/videos"+query, nil)
		assert.Equal(t, want, pagination.FromRequest(request), query)
	}
}

func TestParams_OffsetAndMeta(t *testing.T) {
	params := pagination.Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, params.Offset())
	assert.Equal(t, 0, pagination.Params{}.Offset())

	assert.Equal(t, pagination.Meta{Page: 3, Limit: 10, Total: 21, TotalPages: 3}, params.Meta(21))
	assert.True(t, pagination.Params{Page: 2, Limit: 10}.Meta(21).HasNext)
	assert.Equal(t, 0, pagination.Params{Page: 1}.Meta(5).TotalPages)
}
