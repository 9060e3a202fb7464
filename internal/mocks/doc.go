// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for customizable behavior and a small
// in-memory default implementation so simple tests need no setup. Instead of
// defining inline mocks in individual test files, these standardized mocks
// can be reused across packages.
package mocks
