// Package auth provides the authentication middleware of the JSON API.
//
// Every request below the API prefix must carry a valid bearer token,
// except the public paths such as login. Paths outside the prefix
// (health, metrics) are not touched.
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{
//		Prefix: "/api",
//		Public: []string{"/api/auth/login"},
//		Bearer: auth.Bearer(tokens, revoked),
//	}))
package auth
