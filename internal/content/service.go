// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/guard"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
	"github.com/Dhirajsah18/v-Tube/pkg/uuid"
)

// RelationPurger drops the relations that point at a removed target.
//
// Implemented by [relation.Service].
type RelationPurger interface {
	PurgeTarget(context context.Context, kind relation.Kind, targetID string) error
}

// Service applies ownership-guarded mutations to content.
type Service struct {
	repository Repository
	relations  RelationPurger
}

// NewService constructs a new content [Service].
func NewService(repository Repository, relations RelationPurger) *Service {
	return &Service{repository: repository, relations: relations}
}

/*
Delete removes a content row owned by the caller.

Description: The owner is compared through [guard.RequireOwner] before any
write. Likes that point at the row are purged before the row goes, so a
failed purge leaves the row in place and the call can be retried. A second
sweep after the delete catches a like that landed in between.

Returns:
  - error: InvalidInput, NotFound, Forbidden or storage failures
*/
func (service *Service) Delete(context context.Context, callerID string, kind Kind, id string) error {
	if !kind.Valid() {
		return apperr.InvalidInput("Unsupported content kind")
	}

	normalized, ok := uuid.Normalize(id)
	if !ok {
		return apperr.InvalidInput(fmt.Sprintf("Invalid %s id", kind))
	}

	item, err := service.repository.FindItem(context, kind, normalized)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.NotFound(kind.Resource())
		}
		return fmt.Errorf("content_service_find_failed: %w", err)
	}

	if err := guard.RequireOwner(item, callerID); err != nil {
		return err
	}

	relationKind, likeable := kind.RelationKind()
	if likeable {
		if err := service.relations.PurgeTarget(context, relationKind, normalized); err != nil {
			return fmt.Errorf("content_service_purge_relations_failed: %w", err)
		}
	}

	if err := service.repository.Delete(context, kind, normalized); err != nil {
		return fmt.Errorf("content_service_delete_failed: %w", err)
	}

	if likeable {
		if err := service.relations.PurgeTarget(context, relationKind, normalized); err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "content_relation_sweep_failed",
				slog.String("kind", string(kind)),
				slog.String("id", normalized),
				slog.Any("error", err),
			)
		}
	}

	ctxutil.GetLogger(context).InfoContext(context, "content_deleted",
		slog.String("kind", string(kind)),
		slog.String("id", normalized),
	)

	return nil
}
