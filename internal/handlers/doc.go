// Package handlers implements the HTTP API of the PDF library viewer:
// library browsing and filtering, thumbnail delivery, cache management,
// viewer navigation, server-sent progress events, and the health, version,
// and metrics endpoints.
package handlers
