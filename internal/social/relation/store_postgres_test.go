// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package relation_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
)

func newMockRepository(t *testing.T) (*relation.PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return relation.NewRepository(mock), mock
}

var relationRowColumns = []string{"id", "actorid", "targetkind", "targetid", "createdat"}

/*
TestPostgresRepository_Find hydrates the exact tuple and reports absence as NotFound.
*/
func TestPostgresRepository_Find(t *testing.T) {
	repository, mock := newMockRepository(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE actorid = $1 AND targetkind = $2 AND targetid = $3")).
		WithArgs("u1", "video", "v1").
		WillReturnRows(pgxmock.NewRows(relationRowColumns).AddRow("r1", "u1", "video", "v1", now))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE actorid = $1 AND targetkind = $2 AND targetid = $3")).
		WithArgs("u1", "video", "v2").
		WillReturnError(pgx.ErrNoRows)

	found, err := repository.Find(ctx, "u1", relation.KindVideo, "v1")
	require.NoError(t, err)
	assert.Equal(t, relation.KindVideo, found.TargetKind)
	assert.Equal(t, "r1", found.ID)

	_, err = repository.Find(ctx, "u1", relation.KindVideo, "v2")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Create_ConstraintMapping turns index and CHECK violations into domain errors.
*/
func TestPostgresRepository_Create_ConstraintMapping(t *testing.T) {
	repository, mock := newMockRepository(t)
	ctx := context.Background()
	record := &relation.Relation{ID: "r1", ActorID: "u1", TargetKind: relation.KindChannel, TargetID: "u2", CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO social.relation")).
		WithArgs("r1", "u1", "channel", "u2", record.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO social.relation")).
		WithArgs("r1", "u1", "channel", "u2", record.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})

	assert.True(t, apperr.HasCode(repository.Create(ctx, record), apperr.CodeConflict))
	assert.True(t, apperr.HasCode(repository.Create(ctx, record), apperr.CodeInvalidOperation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Delete reports whether a row was removed.
*/
func TestPostgresRepository_Delete(t *testing.T) {
	repository, mock := newMockRepository(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM social.relation WHERE actorid = $1")).
		WithArgs("u1", "tweet", "t1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM social.relation WHERE actorid = $1")).
		WithArgs("u1", "tweet", "t1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repository.Delete(ctx, "u1", relation.KindTweet, "t1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repository.Delete(ctx, "u1", relation.KindTweet, "t1")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_CountsAndPurge covers the aggregate and bulk statements.
*/
func TestPostgresRepository_CountsAndPurge(t *testing.T) {
	repository, mock := newMockRepository(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM social.relation WHERE targetkind = $1 AND targetid = $2")).
		WithArgs("channel", "u2").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM social.relation WHERE actorid = $1 AND targetkind = $2")).
		WithArgs("u1", "channel").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING actorid")).
		WithArgs("video", "v1").
		WillReturnRows(pgxmock.NewRows([]string{"actorid"}).AddRow("u1").AddRow("u2"))

	subscribers, err := repository.CountByTarget(ctx, relation.KindChannel, "u2")
	require.NoError(t, err)
	assert.Equal(t, 3, subscribers)

	subscriptions, err := repository.CountByActor(ctx, "u1", relation.KindChannel)
	require.NoError(t, err)
	assert.Equal(t, 2, subscriptions)

	actors, err := repository.DeleteByTarget(ctx, relation.KindVideo, "v1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, actors)

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_ListByActor pages with limit and offset.
*/
func TestPostgresRepository_ListByActor(t *testing.T) {
	repository, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY createdat DESC, id DESC")).
		WithArgs("u1", "video", 20, 40).
		WillReturnRows(pgxmock.NewRows(relationRowColumns).
			AddRow("r2", "u1", "video", "v2", now).
			AddRow("r1", "u1", "video", "v1", now.Add(-time.Minute)))

	relations, err := repository.ListByActor(context.Background(), "u1", relation.KindVideo, 20, 40)
	require.NoError(t, err)
	require.Len(t, relations, 2)
	assert.Equal(t, "v2", relations[0].TargetID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Unavailable surfaces store timeouts as retryable.
*/
func TestPostgresRepository_Unavailable(t *testing.T) {
	repository, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("video", "v1").
		WillReturnError(context.DeadlineExceeded)

	_, err := repository.CountByTarget(context.Background(), relation.KindVideo, "v1")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnavailable))
}
