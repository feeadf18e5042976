package model

// API routes consumed by the client, relative to the backend base URL.
const (
	PathMinify          = "/api/v1/minify"
	PathURLs            = "/api/v1/urls"
	PathUsers           = "/api/v1/users"
	PathLogin           = "/api/v1/users/login"
	PathOverview        = "/api/v1/analytics/overview"
	PathPopular         = "/api/v1/analytics/popular"
	PathTimeframePrefix = "/api/v1/analytics/timeframe/"
)

// DefaultPopularLimit is the number of popular URLs requested when the
// caller does not specify one.
const DefaultPopularLimit = 10
