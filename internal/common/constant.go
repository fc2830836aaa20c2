// Package common contains shared constants and sentinel errors used across
// eventaura components.
package common

import "time"

// SessionCookieName is the name of the cookie carrying the session token.
const SessionCookieName = "token"

// SessionLifetime is how long an issued session claim stays valid.
const SessionLifetime = 7 * 24 * time.Hour

// FeaturedEventsLimit caps the featured upcoming events listing.
const FeaturedEventsLimit = 5
