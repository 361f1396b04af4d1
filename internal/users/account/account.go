// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package account handles the authenticated user's own record and public channel pages.

# Architecture

  - Entities: ChannelProfile (read model).
  - Domain: This package depends on the auth package for the User entity and on
    the relation engine, through [RelationCounter], for derived counts.
  - Consistency: Counts are computed from the relation set on read, never stored
    on the account row.
*/
package account

import (
	"context"

	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
)

// # Read Models

// ChannelProfile is the public view of a user as a channel.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	AvatarURL         string `json:"avatar_url,omitempty"`
	CoverURL          string `json:"cover_url,omitempty"`
	SubscribersCount  int    `json:"subscribers_count"`
	SubscribedToCount int    `json:"channels_subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// # Contracts

// AccountRepository defines the persistence contract used by the account service.
//
// Implemented by [auth.PostgresUserRepository].
type AccountRepository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	FindByUsername(context context.Context, username string) (*auth.User, error)
	UpdateAccount(context context.Context, userID, fullName, email string) (*auth.User, error)
}

// RelationCounter supplies the subscription counts derived from the relation set.
type RelationCounter interface {
	SubscriberCount(context context.Context, channelID string) (int, error)
	SubscriptionCount(context context.Context, subscriberID string) (int, error)
	IsSubscribed(context context.Context, subscriberID, channelID string) (bool, error)
}
