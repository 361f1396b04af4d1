// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package relation implements the toggle-relation engine behind likes and channel subscriptions.

# Architecture

  - Entities: Relation (actor, target kind, target).
  - State: The existence of a record IS the boolean state. There is no flag and
    no update path: a record is written once and deleted whole.
  - Consistency: social.relation carries UNIQUE(actorid, targetkind, targetid),
    and every count is derived from that set.
*/
package relation

import "time"

// # Target Kinds

// Kind names what a relation points at.
type Kind string

const (
	KindVideo   Kind = "video"
	KindComment Kind = "comment"
	KindTweet   Kind = "tweet"
	KindChannel Kind = "channel"
)

// ParseKind validates a raw kind value.
func ParseKind(raw string) (Kind, bool) {
	kind := Kind(raw)
	return kind, kind.Valid()
}

// Valid reports whether kind is one of the four supported target kinds.
func (kind Kind) Valid() bool {
	switch kind {
	case KindVideo, KindComment, KindTweet, KindChannel:
		return true
	}
	return false
}

// Resource returns the display name used in error messages.
func (kind Kind) Resource() string {
	switch kind {
	case KindVideo:
		return "Video"
	case KindComment:
		return "Comment"
	case KindTweet:
		return "Tweet"
	case KindChannel:
		return "Channel"
	}
	return "Target"
}

// # Entities

// Relation is one like or one subscription.
type Relation struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	TargetKind Kind      `json:"target_kind"`
	TargetID   string    `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// State is the outcome tag of a toggle.
type State string

const (
	StateCreated State = "created"
	StateRemoved State = "removed"
)

// ToggleResult is returned by [Service.Toggle]. Relation is set only when State is created.
type ToggleResult struct {
	State    State     `json:"state"`
	Relation *Relation `json:"relation,omitempty"`
}
