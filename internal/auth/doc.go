// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package auth identifies API callers from HS256 bearer tokens.

The token subject ("sub") is the user ID the recommendation engine
personalizes for. Tokens are read from the Authorization header or, as a
fallback, from the "token" cookie.

Two middlewares are provided:

  - Optional attaches the user when a valid token is present and lets
    anonymous requests through. Invalid or expired tokens are rejected.
  - Required rejects requests without a valid token with 401.

When no secret is configured, authentication is disabled: Optional treats
every caller as anonymous and Required rejects every request.
*/
package auth
