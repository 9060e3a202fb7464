// Package api implements the HTTP layer of the task engine. Handlers decode
// and validate requests, delegate to the lifecycle service, and translate
// internal errors into sanitized responses with appropriate status codes.
package api
