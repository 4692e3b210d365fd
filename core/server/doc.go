// Package server holds the HTTP server configuration of the catalog API.
//
// The serve command reads Config to pick the listen port, the optional API
// key and the request read timeout.
package server
