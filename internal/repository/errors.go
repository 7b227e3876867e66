// Package repository contains data access logic separated from HTTP handlers.
// Every single-row operation on an owned resource carries the combined
// `id = ? AND owner_id = ?` predicate in one statement, so a row owned by
// another user is indistinguishable from a row that does not exist.
package repository

import "errors"

// Sentinel errors returned by repositories. Handlers map these to HTTP
// status codes; "not found" deliberately covers both missing rows and rows
// owned by a different user.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrTokenNotFound      = errors.New("refresh token not found")
)
