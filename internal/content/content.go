// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package content is the thin owner-scoped contract over videos, comments, tweets and playlists.

Full CRUD for these resources lives outside this module. What remains here is
what the identity core relies on: existence checks for the toggle engine's
targets, owner lookup, and the ownership-guarded removal.
*/
package content

import "github.com/Dhirajsah18/v-Tube/internal/social/relation"

// Kind names an owned content resource.
type Kind string

const (
	KindVideo    Kind = "video"
	KindComment  Kind = "comment"
	KindTweet    Kind = "tweet"
	KindPlaylist Kind = "playlist"
)

// Valid reports whether kind is a supported content kind.
func (kind Kind) Valid() bool {
	_, ok := tables[kind]
	return ok
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
	case KindPlaylist:
		return "Playlist"
	}
	return "Content"
}

// RelationKind maps a content kind to the relation kind that can target it.
// Playlists cannot be liked.
func (kind Kind) RelationKind() (relation.Kind, bool) {
	switch kind {
	case KindVideo:
		return relation.KindVideo, true
	case KindComment:
		return relation.KindComment, true
	case KindTweet:
		return relation.KindTweet, true
	}
	return "", false
}

// Item is the ownership projection of a content row.
type Item struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Owner string `json:"owner_id"`
}

// OwnerID implements [guard.Owned].
func (item *Item) OwnerID() string {
	return item.Owner
}
