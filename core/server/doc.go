// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration;
// the package itself only defines the listen port, the API key and the
// request read timeout.
package server
