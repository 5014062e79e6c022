// Package fallback synthesizes deterministic placeholder records for
// sources that cannot be reached.
//
// Synthesis is a pure function of the source name, record kind, and the
// supplied timestamp: it performs no I/O and produces byte-identical
// payloads across runs aside from the timestamp, so tests can assert
// exact outputs. Every synthesized record carries Fallback=true.
package fallback
