// Package mock provides test doubles for the source package.
//
// MockAdapter implements source.Adapter with function fields for
// behavior injection and call counts for assertions, so coordinator and
// pipeline logic can be tested without reaching any external service.
package mock
