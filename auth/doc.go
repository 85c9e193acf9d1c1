// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.AdminScopeArchive, salt)
	err := auth.ValidateAdminKey(auth.AdminScopeArchive, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, the same scope and salt always produce the same key.
This allows validation without storing the key anywhere.

# Player Tokens

Player tokens are random UUIDs handed out when a username is claimed:

	token := auth.GeneratePlayerToken()

The token is the only credential a view presents when connecting; the
token → username mapping lives in the key-value store.
*/
package auth
