// Package engine materializes routines into tasks.
//
// Apply takes an owner, a target date and a mode. For every active routine of
// the owner it parses the schedule, asks recurrence.Matches whether the routine
// fires on the date, and if so creates one task and records the date as the
// routine's LastApplied.
//
// MODES:
//
// ModeAuto is what list views call on every load. A matching routine is
// skipped when it was already applied on the target date (LastApplied) or
// when a task with the same owner, title, due date and provenance text
// already exists. The second check covers routines whose LastApplied was
// reset or never recorded. Tasks get firing key "auto", so the store's unique
// index rejects a duplicate that slips past both checks.
//
// ModeManual is the explicit "apply routines now" action. The skip checks are
// not evaluated: every matching routine fires, even if it already fired today,
// and each firing gets a fresh firing key. Calling it twice on the same day
// creates two tasks per matching routine. LastApplied is still recorded, so a
// later ModeAuto call on the same day skips.
//
// FAILURE ISOLATION:
//
// A failure while handling one routine is captured as an *ApplyError in the
// Result and processing continues with the next routine. Only a failure to
// list the routines aborts the call.
//
// CONCURRENCY:
//
// Apply holds a per-owner lock for its whole run, so two concurrent calls for
// the same owner (two open tabs loading "today") evaluate one after the other
// and the second sees the first one's LastApplied. Different owners never
// contend.
package engine
