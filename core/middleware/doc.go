// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for every route.
//   - rayid: a unique request id (RayID) per request, stored in the context
//     locals and echoed in the response headers for tracing.
//
// rayid must be registered before any middleware that logs.
package middleware
