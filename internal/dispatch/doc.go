// Package dispatch turns stored reminders into delivered notifications.
//
// The Dispatcher renders and delivers individual reminders and records each
// delivery outcome exactly once. The Sweeper drives the Dispatcher on a
// timer for date-anchored reminders; transactional reminders are dispatched
// directly by the lifecycle service right after their transition commits.
package dispatch
