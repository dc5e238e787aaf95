// Package client contains the CLI's transport to the InternPortal backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the auth endpoints and data entries.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that attaches the
//     bearer token to every request and maps failures to sentinel errors.
//  3. SessionStore, which caches the current token on disk so a login
//     survives CLI restarts.
//
// # Error Handling
//
// Transport failures match ErrUnavailable. Non-2xx responses are returned
// as *APIError, which matches ErrUnauthorized and the common package's
// sentinels (ErrorValidation, ErrorNotFound, ErrorForbidden) with errors.Is.
package client
