// Package hooks runs user-defined shell commands after a request is
// confirmed.
//
// Hooks are defined in config as [hooks.NAME] tables:
//
//	[hooks.notify]
//	command = "notify-send 'Request sent' {summary}"
//	description = "Desktop notification"
//	on = ["delivered"]
//
// # Selection
//
// A hook with an "on" list runs automatically when the delivery result
// matches: "delivered", "failed" or "all". A hook without "on" only runs
// when named explicitly (intake send --hook NAME). --no-hook disables all
// hooks.
//
// # Placeholders
//
// Commands are run with sh -c after placeholder substitution. All values
// are shell-quoted:
//
//   - {name}: submitter
//   - {department}: resolved department
//   - {count}: number of automation requests
//   - {summary}: summary of the first request
//   - {submitted-at}: submission timestamp
//   - {status}: delivered or failed
//   - {error}: delivery error, empty when delivered
//   - {trigger}: send or wizard
//
// Values passed with --arg key=value are available as {key} (quoted),
// {key:raw} (unquoted) and {key:-default}.
//
// The payload JSON is written to the hook's stdin.
package hooks
