// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package content

import (
	"context"
	"fmt"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
)

// ChannelLookup finds the user behind a channel id.
//
// Implemented by [auth.PostgresUserRepository].
type ChannelLookup interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}

// TargetResolver answers the toggle engine's existence checks.
// Channels are users; every other kind is a content row.
type TargetResolver struct {
	contents Repository
	channels ChannelLookup
}

// NewTargetResolver returns a [relation.TargetResolver] over content and users.
func NewTargetResolver(contents Repository, channels ChannelLookup) *TargetResolver {
	return &TargetResolver{contents: contents, channels: channels}
}

// Exists implements [relation.TargetResolver].
func (resolver *TargetResolver) Exists(context context.Context, kind relation.Kind, targetID string) (bool, error) {
	switch kind {
	case relation.KindChannel:
		_, err := resolver.channels.FindByID(context, targetID)
		if err == nil {
			return true, nil
		}
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("content_resolver_channel_failed: %w", err)

	case relation.KindVideo:
		return resolver.contents.Exists(context, KindVideo, targetID)
	case relation.KindComment:
		return resolver.contents.Exists(context, KindComment, targetID)
	case relation.KindTweet:
		return resolver.contents.Exists(context, KindTweet, targetID)
	}

	return false, nil
}
