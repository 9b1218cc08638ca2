package domain

import "errors"

var ErrValidation = errors.New("invalid input")
var ErrDuplicateIdentity = errors.New("identity already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")

// Token verification failures. A well-formed token past its expiry is
// ErrTokenExpired; a token that cannot even be parsed is ErrTokenMalformed;
// every other structural or signature mismatch is ErrInvalidToken.
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("malformed token")

var ErrUpstreamProvider = errors.New("identity provider exchange failed")
