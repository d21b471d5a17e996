// Package store defines the persistence contracts consumed by the service
// layer. The interfaces abstract the backing database away from business
// rules, so stores can be swapped for in-memory fakes in tests.
package store
