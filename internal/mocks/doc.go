// Package mocks provides hand-written test doubles for the store, cache and
// platform interfaces. Each mock exposes per-method function fields so tests
// can script behavior, and records calls for verification.
package mocks
