// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines message, request, response, and domain types.

# Message Envelopes

The embedded view talks to the host over typed {type, data} envelopes:

  - ViewMessage: inbound, Data kept raw until Type is known
  - HostMessage: outbound, Data marshaled per message type

# Inbound Message Types

	webViewReady         → request the initial snapshot
	createCard           → CreateCardData{text}
	cardVote             → CardVoteData{cardId} (1-based)
	fetchTopPost         → FetchTopPostData{date}
	fetchMonthlyTopPosts → FetchMonthlyTopPostsData{year, month}

# Outbound Message Types

	initialData         → Snapshot
	cardCreated         → CardCreatedData
	voteRegistered      → VoteRegisteredData
	topPostData         → TopPostData
	monthlyTopPostsData → MonthlyTopPostsData
	error               → ErrorData

# Domain Types

  - Card: text, username, votes; ordered by creation within a day
  - TopPost: archived highest-voted card of one day
  - DayTopPost: monthly archive entry keyed by two-digit day
  - Snapshot: today's cards plus the user's daily flags

# Constants

	MaxCardTextLength = 128

Message payloads use the camelCase field names of the original
view protocol; the REST session and admin types use snake_case.
*/
package models
