// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package content_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/content"
	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
)

func newMockRepository(t *testing.T) (*content.PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return content.NewRepository(mock), mock
}

/*
TestPostgresRepository_FindItem reads the owner from the kind's table.
*/
func TestPostgresRepository_FindItem(t *testing.T) {
	repository, mock := newMockRepository(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, ownerid FROM content.comment WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "ownerid"}).AddRow("c1", "u1"))

	mock.ExpectQuery(regexp.QuoteMeta("FROM content.tweet")).
		WithArgs("t1").
		WillReturnError(pgx.ErrNoRows)

	item, err := repository.FindItem(ctx, content.KindComment, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u1", item.OwnerID())
	assert.Equal(t, content.KindComment, item.Kind)

	_, err = repository.FindItem(ctx, content.KindTweet, "t1")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = repository.FindItem(ctx, content.Kind("story"), "x")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_ExistsAndDelete covers the existence probe and row removal.
*/
func TestPostgresRepository_ExistsAndDelete(t *testing.T) {
	repository, mock := newMockRepository(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM content.video WHERE id = $1)")).
		WithArgs("v1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM content.playlist WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM content.playlist WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	exists, err := repository.Exists(ctx, content.KindVideo, "v1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repository.Delete(ctx, content.KindPlaylist, "p1"))
	assert.True(t, apperr.HasCode(repository.Delete(ctx, content.KindPlaylist, "p1"), apperr.CodeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
