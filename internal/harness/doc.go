// Package harness runs routine scenarios: routines defined up front, a
// sequence of days on which views are read or applies are run, and
// assertions on the tasks left behind.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: standup_week
//	description: "Standup fires Monday, Wednesday and Friday, once per day"
//	owner: alice                # optional, default "default"
//	routines:
//	  - name: standup
//	    title: Standup
//	    type: weekly
//	    dates: [monday, wednesday, friday]
//	steps:
//	  - date: 2024-01-01
//	    action: today
//	    expect: { created: 1 }
//	  - date: 2024-01-01
//	    action: apply
//	assertions:
//	  - type: task_count
//	    title: Standup
//	    count: 2
//
// Routine entries use the routine file format (see routinefile). The first
// step's date is the day the routines are created.
//
// # Step Actions
//
//   - today: read the today view (applies automatically)
//   - week: read the next-week view (applies automatically)
//   - apply: manual apply
//   - apply_auto: automatic apply without reading a view
//   - toggle: pause or resume the step's routine
//
// # Assertion Types
//
//   - task_count: number of tasks with a title, on a date if one is given
//   - task_on: at least one task with a title on a date
//   - no_task_on: no task with a title on a date
//   - last_applied: a routine's last applied date ("never" for none)
//   - total_tasks: number of tasks of the owner
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory store, a calendar pinned to each step's
// date, sequential IDs and a step clock, so traces are identical across runs
// and can be compared with golden files.
package harness
