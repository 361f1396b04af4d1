// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package content_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/content"
	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
	"github.com/Dhirajsah18/v-Tube/pkg/uuid"
)

type fakeContents struct {
	items map[string]*content.Item
}

func (fake *fakeContents) FindItem(_ context.Context, kind content.Kind, id string) (*content.Item, error) {
	if item, ok := fake.items[id]; ok && item.Kind == kind {
		return item, nil
	}
	return nil, apperr.NotFound(kind.Resource())
}

func (fake *fakeContents) Exists(_ context.Context, kind content.Kind, id string) (bool, error) {
	item, ok := fake.items[id]
	return ok && item.Kind == kind, nil
}

func (fake *fakeContents) Delete(_ context.Context, _ content.Kind, id string) error {
	delete(fake.items, id)
	return nil
}

type purgeCall struct {
	kind     relation.Kind
	targetID string
}

type fakePurger struct {
	calls []purgeCall

	// failures makes the next n calls fail with err.
	failures int
	err      error
}

func (fake *fakePurger) PurgeTarget(_ context.Context, kind relation.Kind, targetID string) error {
	fake.calls = append(fake.calls, purgeCall{kind, targetID})
	if fake.failures > 0 {
		fake.failures--
		return fake.err
	}
	return nil
}

type contentFixture struct {
	contents        *fakeContents
	purger          *fakePurger
	service         *content.Service
	owner, stranger string
	video, playlist string
}

func newContentFixture() *contentFixture {
	f := &contentFixture{
		purger:   &fakePurger{},
		owner:    uuid.New(),
		stranger: uuid.New(),
		video:    uuid.New(),
		playlist: uuid.New(),
	}
	f.contents = &fakeContents{items: map[string]*content.Item{
		f.video:    {ID: f.video, Kind: content.KindVideo, Owner: f.owner},
		f.playlist: {ID: f.playlist, Kind: content.KindPlaylist, Owner: f.owner},
	}}
	f.service = content.NewService(f.contents, f.purger)
	return f
}

/*
TestService_Delete_RequiresOwnership rejects strangers before any write.
*/
func TestService_Delete_RequiresOwnership(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	err := f.service.Delete(ctx, f.stranger, content.KindVideo, f.video)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	assert.Contains(t, f.contents.items, f.video)
	assert.Empty(t, f.purger.calls)

	err = f.service.Delete(ctx, "", content.KindVideo, f.video)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	require.NoError(t, f.service.Delete(ctx, f.owner, content.KindVideo, f.video))
	assert.NotContains(t, f.contents.items, f.video)
	assert.Equal(t, []purgeCall{{relation.KindVideo, f.video}, {relation.KindVideo, f.video}}, f.purger.calls)
}

/*
TestService_Delete_PurgeFailureKeepsRow leaves the row in place when its likes
cannot be purged, so a retry finishes the job.
*/
func TestService_Delete_PurgeFailureKeepsRow(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	f.purger.failures = 1
	f.purger.err = apperr.Unavailable(errors.New("relations store down"))

	err := f.service.Delete(ctx, f.owner, content.KindVideo, f.video)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnavailable))
	assert.Contains(t, f.contents.items, f.video)

	require.NoError(t, f.service.Delete(ctx, f.owner, content.KindVideo, f.video))
	assert.NotContains(t, f.contents.items, f.video)
}

/*
TestService_Delete_SweepFailureIsLogged keeps a completed delete successful
when only the trailing sweep fails.
*/
func TestService_Delete_SweepFailureIsLogged(t *testing.T) {
	f := newContentFixture()
	purger := &sweepFailingPurger{}
	f.service = content.NewService(f.contents, purger)

	require.NoError(t, f.service.Delete(context.Background(), f.owner, content.KindVideo, f.video))
	assert.NotContains(t, f.contents.items, f.video)
	assert.Equal(t, 2, purger.calls)
}

// sweepFailingPurger succeeds on the first call and fails afterwards.
type sweepFailingPurger struct {
	calls int
}

func (fake *sweepFailingPurger) PurgeTarget(context.Context, relation.Kind, string) error {
	fake.calls++
	if fake.calls > 1 {
		return errors.New("relations store down")
	}
	return nil
}

/*
TestService_Delete_Playlist has no relations to purge.
*/
func TestService_Delete_Playlist(t *testing.T) {
	f := newContentFixture()

	require.NoError(t, f.service.Delete(context.Background(), f.owner, content.KindPlaylist, f.playlist))
	assert.Empty(t, f.purger.calls)
}

/*
TestService_Delete_Rejections covers bad ids, kind mismatches and unknown kinds.
*/
func TestService_Delete_Rejections(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	assert.True(t, apperr.HasCode(f.service.Delete(ctx, f.owner, content.KindVideo, "bad"), apperr.CodeValidation))
	assert.True(t, apperr.HasCode(f.service.Delete(ctx, f.owner, content.Kind("story"), f.video), apperr.CodeValidation))

	err := f.service.Delete(ctx, f.owner, content.KindTweet, f.video)
	require.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, "Tweet not found", err.Error())
}

type fakeChannels struct {
	ids map[string]bool
}

func (fake *fakeChannels) FindByID(_ context.Context, id string) (*auth.User, error) {
	if fake.ids[id] {
		return &auth.User{ID: id}, nil
	}
	return nil, apperr.NotFound("User")
}

/*
TestTargetResolver routes channels to users and the rest to content rows.
*/
func TestTargetResolver(t *testing.T) {
	f := newContentFixture()
	resolver := content.NewTargetResolver(f.contents, &fakeChannels{ids: map[string]bool{f.owner: true}})
	ctx := context.Background()

	cases := []struct {
		kind   relation.Kind
		id     string
		exists bool
	}{
		{relation.KindVideo, f.video, true},
		{relation.KindComment, f.video, false},
		{relation.KindChannel, f.owner, true},
		{relation.KindChannel, f.stranger, false},
		{relation.KindTweet, uuid.New(), false},
	}

	for _, tc := range cases {
		exists, err := resolver.Exists(ctx, tc.kind, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.exists, exists, tc.kind)
	}
}

/*
TestHandler_Delete maps the outcomes to HTTP statuses.
*/
func TestHandler_Delete(t *testing.T) {
	f := newContentFixture()
	handler := content.NewHandler(f.service)
	router := chi.NewRouter()
	router.Mount("/videos", handler.Routes(content.KindVideo))

	call := func(callerID string) int {
		request := httptest.NewRequest(http.MethodDelete, "/videos/"+f.video, nil)
		if callerID != "" {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: callerID}))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusForbidden, call(f.stranger))
	assert.Equal(t, http.StatusNoContent, call(f.owner))
	assert.Equal(t, http.StatusNotFound, call(f.owner))
}
