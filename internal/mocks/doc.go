// Package mocks provides in-memory implementations of the store interfaces
// for testing. The fakes honor the real stores' contracts, including soft
// deletion and version checking, and count writes so tests can assert that
// rejected operations never touched storage.
package mocks
