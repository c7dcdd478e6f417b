// Package flows wires the wizard framework to command-specific behavior.
//
// [IntakeInteractive] runs the automation request wizard: submitter,
// department and automation entries, followed by a confirmation screen.
// An intake.Controller acts as the wizard's navigator, so validation and
// submission rules live in one place.
package flows
