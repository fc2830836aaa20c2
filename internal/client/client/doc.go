// Package client talks to the Event Aura HTTP API on behalf of the CLI.
//
// HTTPClient keeps the session cookie in a cookie jar, so a successful Login
// authenticates every following call until Logout. SessionToken and
// SetSessionToken let the caller persist the session between runs.
//
// Non-2xx answers come back as *APIError. Use errors.Is with ErrUnauthorized,
// ErrNotFound or ErrUnavailable to branch on the common cases; transport
// failures also match ErrUnavailable.
package client
