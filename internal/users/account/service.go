// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/validate"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
	"github.com/Dhirajsah18/v-Tube/pkg/handle"
	"github.com/Dhirajsah18/v-Tube/pkg/pointer"
)

// # Service Layer

// Service orchestrates account reads, account updates and channel profiles.
type Service struct {
	accountRepository AccountRepository
	relationCounter   RelationCounter
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, counter RelationCounter) *Service {
	return &Service{
		accountRepository: accountRepo,
		relationCounter:   counter,
	}
}

// # Account Management

/*
GetCurrentUser retrieves the identity record of the authenticated caller.

Returns:
  - *auth.User: The hydrated user (secrets are never serialised)
  - error: Not found or execution failures
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_current_failed: %w", err)
	}
	return user, nil
}

// UpdateAccountInput defines the mutable subset of account fields.
// Nil fields keep their stored value.
type UpdateAccountInput struct {
	FullName *string
	Email    *string
}

/*
UpdateAccountDetails applies a partial change to the caller's full name and email.

Returns:
  - *auth.User: The updated record
  - error: Validation, Conflict (email taken) or storage failures
*/
func (service *Service) UpdateAccountDetails(context context.Context, userID string, input UpdateAccountInput) (*auth.User, error) {
	if input.FullName == nil && input.Email == nil {
		return nil, apperr.ValidationError("At least one of full_name or email is required")
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	fullName := pointer.Fallback(input.FullName, user.FullName)
	email := handle.Email(pointer.Fallback(input.Email, user.Email))

	validator := &validate.Validator{}
	validator.Required(auth.FieldFullName, fullName).
		MaxLen(auth.FieldFullName, fullName, 100).
		Required(auth.FieldEmail, email).
		Email(auth.FieldEmail, email)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.accountRepository.UpdateAccount(context, userID, fullName, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_account_updated", slog.String("user_id", userID))

	return updated, nil
}

// # Channel Profiles

/*
GetChannelProfile resolves a channel by username and attaches derived counts.

Parameters:
  - context: context.Context
  - username: string (any case; canonicalised before lookup)
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *ChannelProfile: Channel with subscriber counts and the viewer's subscription state
  - error: InvalidInput, NotFound or counter failures
*/
func (service *Service) GetChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	canonical := handle.Canonical(username)
	if canonical == "" {
		return nil, apperr.InvalidInput("Username is missing")
	}

	channel, err := service.accountRepository.FindByUsername(context, canonical)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("account_service_channel_lookup_failed: %w", err)
	}

	subscribers, err := service.relationCounter.SubscriberCount(context, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_subscriber_count_failed: %w", err)
	}

	subscribedTo, err := service.relationCounter.SubscriptionCount(context, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_subscription_count_failed: %w", err)
	}

	isSubscribed := false
	if viewerID != "" && viewerID != channel.ID {
		isSubscribed, err = service.relationCounter.IsSubscribed(context, viewerID, channel.ID)
		if err != nil {
			return nil, fmt.Errorf("account_service_is_subscribed_failed: %w", err)
		}
	}

	return &ChannelProfile{
		ID:                channel.ID,
		Username:          channel.Username,
		FullName:          channel.FullName,
		AvatarURL:         channel.AvatarURL,
		CoverURL:          channel.CoverURL,
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}
