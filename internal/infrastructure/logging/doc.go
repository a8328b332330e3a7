// Package logging wraps log/slog for the bridge.
//
// One Logger is built from the config file at startup and threaded through
// every component; components derive tagged children with With. JSON output
// is the default so log collectors can index entries; text output exists
// for local development. All entries carry service and version attributes.
//
// Do not log broker credentials or anything else from the auth section of
// the config.
package logging
