// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/platform/postgres"
)

/*
TestParseConfig_AppliesSettings carries the tuning and the statement timeout.
*/
func TestParseConfig_AppliesSettings(t *testing.T) {
	settings := postgres.DefaultSettings()
	settings.StatementTimeout = 1500 * time.Millisecond

	poolConfig, err := postgres.ParseConfig("postgres://vtube:vtube@db:5432/vtube", settings)
	require.NoError(t, err)

	assert.Equal(t, int32(25), poolConfig.MaxConns)
	assert.Equal(t, int32(5), poolConfig.MinConns)
	assert.Equal(t, "db", poolConfig.ConnConfig.Host)
	assert.Equal(t, "1500", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])

	settings.StatementTimeout = 0
	poolConfig, err = postgres.ParseConfig("postgres://db/vtube", settings)
	require.NoError(t, err)
	assert.NotContains(t, poolConfig.ConnConfig.RuntimeParams, "statement_timeout")
}

/*
TestParseConfig_InvalidDSN rejects malformed connection strings.
*/
func TestParseConfig_InvalidDSN(t *testing.T) {
	_, err := postgres.ParseConfig("postgres://db:notaport/vtube", postgres.DefaultSettings())
	assert.Error(t, err)
}

/*
TestPing reports both a healthy and a failing pool.
*/
func TestPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	assert.NoError(t, postgres.Ping(context.Background(), mock))

	err = postgres.Ping(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_ping_failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
