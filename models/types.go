// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// MaxCardTextLength is the maximum card text length in characters.
const MaxCardTextLength = 128

// Inbound message types (view → host)
const (
	MsgWebViewReady         = "webViewReady"
	MsgCreateCard           = "createCard"
	MsgCardVote             = "cardVote"
	MsgFetchTopPost         = "fetchTopPost"
	MsgFetchMonthlyTopPosts = "fetchMonthlyTopPosts"
)

// Outbound message types (host → view)
const (
	MsgInitialData         = "initialData"
	MsgCardCreated         = "cardCreated"
	MsgVoteRegistered      = "voteRegistered"
	MsgTopPostData         = "topPostData"
	MsgMonthlyTopPostsData = "monthlyTopPostsData"
	MsgError               = "error"
)

// Message envelopes

// ViewMessage is a request envelope received from the embedded view.
// Data is decoded per message type once Type has been inspected.
type ViewMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HostMessage is a response envelope sent back to the view.
type HostMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound payloads

type CreateCardData struct {
	Text string `json:"text"`
}

// CardID is 1-based, matching the ids the view assigns to rendered cards.
type CardVoteData struct {
	CardID int `json:"cardId"`
}

type FetchTopPostData struct {
	Date string `json:"date"`
}

type FetchMonthlyTopPostsData struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Outbound payloads

type CardCreatedData struct {
	Success  bool   `json:"success"`
	Text     string `json:"text,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// VotedPostIndex is the 0-based card index the vote landed on.
type VoteRegisteredData struct {
	Success        bool   `json:"success"`
	VotedPostIndex *int   `json:"votedPostIndex,omitempty"`
	Message        string `json:"message,omitempty"`
}

type TopPostData struct {
	Date    string           `json:"date"`
	TopPost *ArchivedTopPost `json:"topPost"`
}

type MonthlyTopPostsData struct {
	Year     int          `json:"year"`
	Month    int          `json:"month"`
	TopPosts []DayTopPost `json:"topPosts"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// Domain types

// Card is a single user-authored entry eligible for voting.
// Within a day, cards keep their creation order; that order is the
// stable index referenced by votes.
type Card struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Votes    int    `json:"votes"`
}

// TopPost is the archived highest-voted card of a past day, stored as
// JSON in the monthly archive hash.
type TopPost struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Votes    int    `json:"votes"`
}

// ArchivedTopPost is a TopPost annotated with the day it was archived for.
type ArchivedTopPost struct {
	TopPost
	Date string `json:"date"`
}

// DayTopPost is one monthly archive entry; Day is the two-digit
// day-of-month field ("01".."31").
type DayTopPost struct {
	Day string `json:"day"`
	TopPost
}

// Snapshot is the initial state pushed to a view on webViewReady:
// today's cards plus the user's daily flags. The last-created and
// last-voted pointers are only set when they refer to today.
type Snapshot struct {
	Username        string `json:"username"`
	Cards           []Card `json:"cards"`
	LastVotedPost   *int   `json:"lastVotedPost"`
	LastCreatedPost *int   `json:"lastCreatedPost"`
	HasPostedToday  bool   `json:"hasPostedToday"`
	HasVotedToday   bool   `json:"hasVotedToday"`
}

// Session API types

type ClaimSessionRequest struct {
	Username string `json:"username"`
}

type ClaimSessionResponse struct {
	Username    string `json:"username"`
	PlayerToken string `json:"player_token"`
}

// Admin API types

type RunArchiveRequest struct {
	Date string `json:"date,omitempty"`
}

type RunArchiveResponse struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
