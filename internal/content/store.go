// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/dberr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/postgres"
)

// Repository defines the persistence contract for owned content.
//
// Implemented by [PostgresRepository].
type Repository interface {
	FindItem(context context.Context, kind Kind, id string) (*Item, error)
	Exists(context context.Context, kind Kind, id string) (bool, error)
	Delete(context context.Context, kind Kind, id string) error
}

// tables maps each kind to its fixed table. Queries never interpolate caller input.
var tables = map[Kind]string{
	KindVideo:    "content.video",
	KindComment:  "content.comment",
	KindTweet:    "content.tweet",
	KindPlaylist: "content.playlist",
}

// PostgresRepository implements [Repository] over the content schema.
type PostgresRepository struct {
	pool postgres.Querier
}

// NewRepository returns a new content repository.
func NewRepository(pool postgres.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindItem returns the owner projection of one row, or NotFound.
func (repository *PostgresRepository) FindItem(context context.Context, kind Kind, id string) (*Item, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	item := Item{Kind: kind}
	query := "SELECT id, ownerid FROM " + table + " WHERE id = $1"

	if err := repository.pool.QueryRow(context, query, id).Scan(&item.ID, &item.Owner); err != nil {
		return nil, fmt.Errorf("postgres_content_repo_find_failed: %w", dberr.Wrap(err, kind.Resource()))
	}

	return &item, nil
}

// Exists reports whether a row of kind with id exists.
func (repository *PostgresRepository) Exists(context context.Context, kind Kind, id string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE id = $1)"

	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_content_repo_exists_failed: %w", dberr.Wrap(err, kind.Resource()))
	}

	return exists, nil
}

// Delete removes one row. A missing row is NotFound.
func (repository *PostgresRepository) Delete(context context.Context, kind Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	tag, err := repository.pool.Exec(context, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_content_repo_delete_failed: %w", dberr.Wrap(err, kind.Resource()))
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, kind.Resource())
	}

	return nil
}

func tableFor(kind Kind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("postgres_content_repo_unknown_kind: %q", kind)
	}
	return table, nil
}
