// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package relation

import "context"

// # Contracts

// Repository defines the persistence contract for relation records.
//
// Implemented by [PostgresRepository].
type Repository interface {
	// Find returns the record for the exact tuple, or NotFound.
	Find(context context.Context, actorID string, kind Kind, targetID string) (*Relation, error)

	// Create inserts a record. A duplicate tuple fails with Conflict.
	Create(context context.Context, relation *Relation) error

	// Delete removes the record for the exact tuple and reports whether a row was removed.
	Delete(context context.Context, actorID string, kind Kind, targetID string) (bool, error)

	// DeleteByTarget removes every record pointing at a target and returns the affected actors.
	DeleteByTarget(context context.Context, kind Kind, targetID string) ([]string, error)

	CountByTarget(context context.Context, kind Kind, targetID string) (int, error)
	CountByActor(context context.Context, actorID string, kind Kind) (int, error)

	// Listings are ordered newest first.
	ListByActor(context context.Context, actorID string, kind Kind, limit, offset int) ([]*Relation, error)
	ListByTarget(context context.Context, kind Kind, targetID string, limit, offset int) ([]*Relation, error)
}

// TargetResolver reports whether a target of the given kind exists in its owning store.
type TargetResolver interface {
	Exists(context context.Context, kind Kind, targetID string) (bool, error)
}

// CachedCount is one cache read. Version is the key's invalidation generation
// at read time and must accompany the write-back of a miss.
type CachedCount struct {
	Value   int
	Hit     bool
	Version int64
}

// CountCache stores derived counts. Every toggle invalidates the affected keys,
// and a Set carrying a version older than the last invalidation is dropped.
//
// Implemented by [RedisCountCache].
type CountCache interface {
	Get(context context.Context, key string) (CachedCount, error)
	Set(context context.Context, key string, value int, version int64) error
	Invalidate(context context.Context, keys ...string) error
}

// nopCountCache is used when no cache is configured. Every read misses.
type nopCountCache struct{}

func (nopCountCache) Get(context.Context, string) (CachedCount, error) { return CachedCount{}, nil }
func (nopCountCache) Set(context.Context, string, int, int64) error    { return nil }
func (nopCountCache) Invalidate(context.Context, ...string) error      { return nil }

// # Cache Keys

func targetCountKey(kind Kind, targetID string) string {
	return "target:" + string(kind) + ":" + targetID
}

func actorCountKey(actorID string, kind Kind) string {
	return "actor:" + actorID + ":" + string(kind)
}
