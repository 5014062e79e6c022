// Package slack adapts a Slack workspace as a message source.
//
// The adapter authenticates with a bot token, walks the visible
// conversations, and normalizes channel history into message records.
// Provider errors are mapped onto the shared error taxonomy before they
// leave the package.
package slack
