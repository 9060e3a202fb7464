// Package lifecycle implements the task lifecycle controller: the single
// entry point for all mutating task operations.
//
// Every operation follows the same shape: authorize the caller, validate the
// transition, persist the task change and the new reminder drafts in one
// transaction, then fire the best-effort side channels (immediate
// notification, calendar placement, lifecycle events). Side channel failures
// are reported through result flags and never roll back the mutation.
package lifecycle
