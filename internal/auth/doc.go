// Package auth authenticates local accounts and issues bearer tokens.
//
// Passwords are Argon2id hashes, an optional TOTP second factor can be enrolled per user,
// and access tokens are HS256 JWTs carrying the user id and the global role claims.
// Logout revokes the token id in a token store until the token would have expired.
//
// The Bearer middleware turns a valid token into an access.Caller stored in the request
// locals; club level decisions are taken by package access.
package auth
