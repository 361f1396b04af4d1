// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package relation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/dberr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/postgres"
)

const relationColumns = "id, actorid, targetkind, targetid, createdat"

// PostgresRepository implements [Repository] over social.relation.
type PostgresRepository struct {
	pool postgres.Querier
}

// NewRepository returns a new relation repository.
func NewRepository(pool postgres.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Find returns the record for (actorID, kind, targetID).
func (repository *PostgresRepository) Find(context context.Context, actorID string, kind Kind, targetID string) (*Relation, error) {
	query := `SELECT ` + relationColumns + ` FROM social.relation
		WHERE actorid = $1 AND targetkind = $2 AND targetid = $3`

	relation, err := scanRelation(repository.pool.QueryRow(context, query, actorID, string(kind), targetID))
	if err != nil {
		return nil, fmt.Errorf("postgres_relation_repo_find_failed: %w", dberr.Wrap(err, "Relation"))
	}

	return relation, nil
}

/*
Create inserts a relation record.

Returns:
  - error: Conflict when the tuple already exists (unique index),
    InvalidOperation when a CHECK constraint rejects it (self-subscription)
*/
func (repository *PostgresRepository) Create(context context.Context, relation *Relation) error {
	query := `INSERT INTO social.relation (` + relationColumns + `) VALUES ($1, $2, $3, $4, $5)`

	_, err := repository.pool.Exec(context, query,
		relation.ID, relation.ActorID, string(relation.TargetKind), relation.TargetID, relation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_relation_repo_create_failed: %w", dberr.Wrap(err, "Relation"))
	}

	return nil
}

// Delete removes the record for the exact tuple.
func (repository *PostgresRepository) Delete(context context.Context, actorID string, kind Kind, targetID string) (bool, error) {
	const query = `DELETE FROM social.relation WHERE actorid = $1 AND targetkind = $2 AND targetid = $3`

	tag, err := repository.pool.Exec(context, query, actorID, string(kind), targetID)
	if err != nil {
		return false, fmt.Errorf("postgres_relation_repo_delete_failed: %w", dberr.Wrap(err, "Relation"))
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteByTarget purges every relation pointing at a removed target.
func (repository *PostgresRepository) DeleteByTarget(context context.Context, kind Kind, targetID string) ([]string, error) {
	const query = `DELETE FROM social.relation WHERE targetkind = $1 AND targetid = $2 RETURNING actorid`

	rows, err := repository.pool.Query(context, query, string(kind), targetID)
	if err != nil {
		return nil, fmt.Errorf("postgres_relation_repo_purge_failed: %w", dberr.Wrap(err, "Relation"))
	}

	actorIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres_relation_repo_purge_scan_failed: %w", dberr.Wrap(err, "Relation"))
	}

	return actorIDs, nil
}

// CountByTarget counts relations pointing at a target (likes, subscribers).
func (repository *PostgresRepository) CountByTarget(context context.Context, kind Kind, targetID string) (int, error) {
	const query = `SELECT COUNT(*) FROM social.relation WHERE targetkind = $1 AND targetid = $2`
	return repository.count(context, query, string(kind), targetID)
}

// CountByActor counts relations of one kind made by an actor (liked videos, subscriptions).
func (repository *PostgresRepository) CountByActor(context context.Context, actorID string, kind Kind) (int, error) {
	const query = `SELECT COUNT(*) FROM social.relation WHERE actorid = $1 AND targetkind = $2`
	return repository.count(context, query, actorID, string(kind))
}

// ListByActor pages through an actor's relations of one kind.
func (repository *PostgresRepository) ListByActor(context context.Context, actorID string, kind Kind, limit, offset int) ([]*Relation, error) {
	query := `SELECT ` + relationColumns + ` FROM social.relation
		WHERE actorid = $1 AND targetkind = $2
		ORDER BY createdat DESC, id DESC
		LIMIT $3 OFFSET $4`

	return repository.list(context, query, actorID, string(kind), limit, offset)
}

// ListByTarget pages through the relations pointing at a target.
func (repository *PostgresRepository) ListByTarget(context context.Context, kind Kind, targetID string, limit, offset int) ([]*Relation, error) {
	query := `SELECT ` + relationColumns + ` FROM social.relation
		WHERE targetkind = $1 AND targetid = $2
		ORDER BY createdat DESC, id DESC
		LIMIT $3 OFFSET $4`

	return repository.list(context, query, string(kind), targetID, limit, offset)
}

// # Helpers

func (repository *PostgresRepository) count(context context.Context, query string, args ...any) (int, error) {
	var total int64
	if err := repository.pool.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_relation_repo_count_failed: %w", dberr.Wrap(err, "Relation"))
	}
	return int(total), nil
}

func (repository *PostgresRepository) list(context context.Context, query string, args ...any) ([]*Relation, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_relation_repo_list_failed: %w", dberr.Wrap(err, "Relation"))
	}

	relations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Relation, error) {
		return scanRelation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_relation_repo_list_scan_failed: %w", dberr.Wrap(err, "Relation"))
	}

	return relations, nil
}

func scanRelation(row pgx.Row) (*Relation, error) {
	var relation Relation
	var kind string

	if err := row.Scan(&relation.ID, &relation.ActorID, &kind, &relation.TargetID, &relation.CreatedAt); err != nil {
		return nil, err
	}

	targetKind, ok := ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("relation_store_unknown_kind: %q", kind)
	}

	relation.TargetKind = targetKind
	return &relation, nil
}
