package domain

import "errors"

// ErrValidation marks malformed or out-of-range input. It is raised before any
// storage access.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized is the single outcome of every failed credential check.
// Unknown owner, malformed stored hash and wrong secret are not distinguished.
var ErrUnauthorized = errors.New("invalid credentials")

// ErrOwnerNotFound is returned by lookups that are not part of credential
// verification.
var ErrOwnerNotFound = errors.New("owner not found")

// ErrStorage wraps persistence failures.
var ErrStorage = errors.New("storage failure")
