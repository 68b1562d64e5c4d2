// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package remote

import "github.com/google/uuid"

// Result actions dispatched on the bus when an asynchronous remote call
// completes. Exactly one of Payload and Err is set. Consumers match results
// to their own requests via Token or PostID and drop the rest as stale.

// PostCreatedAction is the reply to CreatePost. Token echoes the request
// token minted by the issuing session.
type PostCreatedAction struct {
	Token   uuid.UUID
	Payload *RemotePost
	Err     error
}

// PostUpdatedAction is the reply to UpdatePost.
type PostUpdatedAction struct {
	PostID  int64
	Payload *RemotePost
	Err     error
}

// AutosaveAction is the reply to Autosave. The payload revision's ParentID
// decides whether the live post was updated or a side revision was written.
type AutosaveAction struct {
	PostID  int64
	Payload *RemoteRevision
	Err     error
}

// PostFetchedAction is the reply to FetchPost.
type PostFetchedAction struct {
	PostID  int64
	Payload *RemotePost
	Err     error
}

// PostIDsFetchedAction is the reply to FetchPostIDs: one page of the post
// index for a named list.
type PostIDsFetchedAction struct {
	ListName string
	Page     int
	Payload  []RemotePostID
	HasMore  bool
	Err      error
}
