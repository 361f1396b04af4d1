// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package relation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/pkg/pagination"
	"github.com/Dhirajsah18/v-Tube/pkg/uuid"
)

// Service implements the toggle protocol and the derived counts for every relation kind.
type Service struct {
	repository Repository
	resolver   TargetResolver
	cache      CountCache
}

// NewService constructs a new [Service]. A nil cache disables count caching.
func NewService(repository Repository, resolver TargetResolver, cache CountCache) *Service {
	if cache == nil {
		cache = nopCountCache{}
	}

	return &Service{
		repository: repository,
		resolver:   resolver,
		cache:      cache,
	}
}

// # Toggle

/*
Toggle creates the relation (actorID, kind, targetID) when absent and removes it when present.

Description: The lookup and the write are two statements. When two concurrent
toggles both observe no record, the unique index rejects the second insert with
Conflict; that call re-reads the winner and reports created without writing.

Parameters:
  - context: context.Context
  - actorID: string (UUID)
  - kind: Kind
  - targetID: string (UUID)

Returns:
  - *ToggleResult: created with the record, or removed
  - error: InvalidInput, InvalidOperation (self-subscription), NotFound or Unavailable
*/
func (service *Service) Toggle(context context.Context, actorID string, kind Kind, targetID string) (*ToggleResult, error) {
	if !kind.Valid() {
		return nil, apperr.InvalidInput("Unsupported relation kind")
	}

	actor, ok := uuid.Normalize(actorID)
	if !ok {
		return nil, apperr.InvalidInput("Invalid user id")
	}

	target, ok := uuid.Normalize(targetID)
	if !ok {
		return nil, apperr.InvalidInput(fmt.Sprintf("Invalid %s id", kind))
	}

	// Rejected before the existence check so that no lookup is spent on it.
	if kind == KindChannel && actor == target {
		return nil, apperr.InvalidOperation("You cannot subscribe to your own channel")
	}

	exists, err := service.resolver.Exists(context, kind, target)
	if err != nil {
		return nil, fmt.Errorf("relation_service_resolve_target_failed: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound(kind.Resource())
	}

	result, err := service.flip(context, actor, kind, target)
	if err != nil {
		return nil, err
	}

	service.invalidate(context, targetCountKey(kind, target), actorCountKey(actor, kind))

	ctxutil.GetLogger(context).InfoContext(context, "relation_toggled",
		slog.String("actor_id", actor),
		slog.String("target_kind", string(kind)),
		slog.String("target_id", target),
		slog.String("state", string(result.State)),
	)

	return result, nil
}

// flip performs the lookup-then-act step of [Service.Toggle].
func (service *Service) flip(context context.Context, actor string, kind Kind, target string) (*ToggleResult, error) {
	_, err := service.repository.Find(context, actor, kind, target)
	switch {
	case err == nil:
		// A concurrent toggle may have removed it first; the end state is the same.
		if _, err := service.repository.Delete(context, actor, kind, target); err != nil {
			return nil, fmt.Errorf("relation_service_delete_failed: %w", err)
		}
		return &ToggleResult{State: StateRemoved}, nil

	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, fmt.Errorf("relation_service_find_failed: %w", err)
	}

	relation := &Relation{
		ID:         uuid.New(),
		ActorID:    actor,
		TargetKind: kind,
		TargetID:   target,
		CreatedAt:  time.Now().UTC(),
	}

	err = service.repository.Create(context, relation)
	if err == nil {
		return &ToggleResult{State: StateCreated, Relation: relation}, nil
	}

	if !apperr.HasCode(err, apperr.CodeConflict) {
		return nil, fmt.Errorf("relation_service_create_failed: %w", err)
	}

	// Lost the insert race: the record exists, so this call is a no-op.
	existing, err := service.repository.Find(context, actor, kind, target)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return &ToggleResult{State: StateCreated}, nil
		}
		return nil, fmt.Errorf("relation_service_reread_failed: %w", err)
	}

	return &ToggleResult{State: StateCreated, Relation: existing}, nil
}

// # Derived Counts

// CountForTarget returns the number of relations pointing at a target.
func (service *Service) CountForTarget(context context.Context, kind Kind, targetID string) (int, error) {
	return service.cachedCount(context, targetCountKey(kind, targetID), func() (int, error) {
		return service.repository.CountByTarget(context, kind, targetID)
	})
}

// CountForActor returns the number of relations of one kind made by an actor.
func (service *Service) CountForActor(context context.Context, actorID string, kind Kind) (int, error) {
	return service.cachedCount(context, actorCountKey(actorID, kind), func() (int, error) {
		return service.repository.CountByActor(context, actorID, kind)
	})
}

// IsRelated reports whether the record (actorID, kind, targetID) exists.
func (service *Service) IsRelated(context context.Context, actorID string, kind Kind, targetID string) (bool, error) {
	_, err := service.repository.Find(context, actorID, kind, targetID)
	if err == nil {
		return true, nil
	}
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("relation_service_is_related_failed: %w", err)
}

// SubscriberCount returns how many users subscribe to channelID.
func (service *Service) SubscriberCount(context context.Context, channelID string) (int, error) {
	return service.CountForTarget(context, KindChannel, channelID)
}

// SubscriptionCount returns how many channels subscriberID subscribes to.
func (service *Service) SubscriptionCount(context context.Context, subscriberID string) (int, error) {
	return service.CountForActor(context, subscriberID, KindChannel)
}

// IsSubscribed reports whether subscriberID subscribes to channelID.
func (service *Service) IsSubscribed(context context.Context, subscriberID, channelID string) (bool, error) {
	return service.IsRelated(context, subscriberID, KindChannel, channelID)
}

// # Listings

// ListByActor pages through an actor's relations of one kind, newest first.
func (service *Service) ListByActor(context context.Context, actorID string, kind Kind, params pagination.Params) ([]*Relation, pagination.Meta, error) {
	actor, ok := uuid.Normalize(actorID)
	if !ok {
		return nil, pagination.Meta{}, apperr.InvalidInput("Invalid user id")
	}

	// A subscription listing names a channel owner, who must exist.
	if kind == KindChannel {
		if err := service.requireExisting(context, KindChannel, actor, "Subscriber"); err != nil {
			return nil, pagination.Meta{}, err
		}
	}

	total, err := service.CountForActor(context, actor, kind)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	relations, err := service.repository.ListByActor(context, actor, kind, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("relation_service_list_by_actor_failed: %w", err)
	}

	return relations, params.Meta(total), nil
}

// ListByTarget pages through the relations pointing at a target, newest first.
func (service *Service) ListByTarget(context context.Context, kind Kind, targetID string, params pagination.Params) ([]*Relation, pagination.Meta, error) {
	target, ok := uuid.Normalize(targetID)
	if !ok {
		return nil, pagination.Meta{}, apperr.InvalidInput(fmt.Sprintf("Invalid %s id", kind))
	}

	if err := service.requireExisting(context, kind, target, kind.Resource()); err != nil {
		return nil, pagination.Meta{}, err
	}

	total, err := service.CountForTarget(context, kind, target)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	relations, err := service.repository.ListByTarget(context, kind, target, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("relation_service_list_by_target_failed: %w", err)
	}

	return relations, params.Meta(total), nil
}

// requireExisting fails with "<resource> not found" when id is unknown to the resolver.
func (service *Service) requireExisting(context context.Context, kind Kind, id, resource string) error {
	exists, err := service.resolver.Exists(context, kind, id)
	if err != nil {
		return fmt.Errorf("relation_service_resolve_target_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound(resource)
	}
	return nil
}

// # Maintenance

/*
PurgeTarget removes every relation pointing at a deleted target.

Called by the content layer after an owner removes a video, comment or tweet,
so that no like survives its target.
*/
func (service *Service) PurgeTarget(context context.Context, kind Kind, targetID string) error {
	actorIDs, err := service.repository.DeleteByTarget(context, kind, targetID)
	if err != nil {
		return fmt.Errorf("relation_service_purge_failed: %w", err)
	}

	keys := []string{targetCountKey(kind, targetID)}
	for _, actorID := range actorIDs {
		keys = append(keys, actorCountKey(actorID, kind))
	}
	service.invalidate(context, keys...)

	return nil
}

// # Helpers

// cachedCount reads through the count cache. Cache failures degrade to the store.
func (service *Service) cachedCount(context context.Context, key string, load func() (int, error)) (int, error) {
	logger := ctxutil.GetLogger(context)

	entry, readErr := service.cache.Get(context, key)
	if readErr != nil {
		logger.WarnContext(context, "relation_count_cache_read_failed", slog.String("key", key), slog.Any("error", readErr))
	} else if entry.Hit {
		return entry.Value, nil
	}

	value, err := load()
	if err != nil {
		return 0, fmt.Errorf("relation_service_count_failed: %w", err)
	}

	// Without a generation from the read there is nothing to guard the write with.
	if readErr != nil {
		return value, nil
	}

	if err := service.cache.Set(context, key, value, entry.Version); err != nil {
		logger.WarnContext(context, "relation_count_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}

	return value, nil
}

func (service *Service) invalidate(context context.Context, keys ...string) {
	if err := service.cache.Invalidate(context, keys...); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "relation_count_cache_invalidate_failed", slog.Any("error", err))
	}
}
