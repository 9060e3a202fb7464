// Package store defines the persistence interfaces of the scheduling engine
// and the shared error vocabulary implementations map database failures onto.
// Concrete implementations live in internal/platform/postgres.
package store
