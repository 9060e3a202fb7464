// Package events provides types and interfaces for publishing task
// lifecycle transitions to loosely coupled observers.
//
// The lifecycle service emits events without knowing which handlers will
// process them; handlers register at startup. Event delivery is synchronous
// and best-effort: a failing handler never rolls back the transition that
// produced the event.
package events
