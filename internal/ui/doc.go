// Package ui holds the terminal UI of intake.
//
// Subpackages:
//
//   - styles: theme, lipgloss styles and symbols shared by all output
//   - wizard/framework: the multi-step wizard model and navigation
//   - wizard/steps: the step screens (filterable list, select with custom
//     value, automation entry list, confirmation)
//   - wizard/flows: the intake wizard wired to an intake.Controller
//   - prompt: a yes/no confirmation prompt
//   - progress: a spinner for blocking work
//   - static: non-interactive tables and markdown rendering
//
// Everything interactive runs on bubbletea v2 and writes to stderr, so
// stdout stays clean for piping.
package ui
