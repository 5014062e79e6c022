// Package podcast turns categorized source records into an episode
// script using an OpenAI-compatible chat model.
package podcast
