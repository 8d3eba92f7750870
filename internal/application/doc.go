// Package application wires the army-grid service together: profile storage,
// metrics, HTTP handlers, routers and the HTTP server. It keeps the main
// package focused on CLI parsing and orchestration.
package application
