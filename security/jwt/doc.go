// Package jwt signs and verifies HS256 access tokens and resolves the
// authenticated user id carried in their payload.
package jwt
