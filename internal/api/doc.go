// Package api defines wire-format types and converters shared by the HTTP
// server and the CLI's JSON output. It translates internal models into
// transport-friendly DTOs so consumers never couple to engine types.
//
// # Key Types
//
// Recommendation/RecommendationsResponse: ranked titles for one query.
//
// Profile/ProfilesResponse: the movies that survived the rating filter.
//
// BuildSummary: row counts and sizes reported after a build.
//
// HealthResponse: readiness of the running server.
//
// ErrorResponse: the body of every non-2xx reply.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// Scores are omitted unless the caller asked for them, so the default
// payload matches the plain list of titles the engine returns.
package api
