// Package workspace keeps a client-side selection (one task or one comment) consistent
// with mutations performed against the record store.
//
// A Workspace is driven from a single goroutine: the bubbletea Update loop in the TUI,
// or the command body in the CLI. Entry points such as TaskActions.Edit run on that
// goroutine, register a PendingMutation, and return a tea.Cmd. The command performs the
// store call off-loop and yields a message; feeding that message back to
// Workspace.Update applies the outcome (selection patch or clear, cache invalidation,
// notification) on the loop again. Nothing in this package takes a lock; callers must not
// share a Workspace between goroutines.
package workspace
