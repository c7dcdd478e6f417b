// Package intake implements the automation-request intake form.
//
// The [Controller] owns the whole form: the submitter, the department
// (with a free-text fallback when "Other" is chosen) and one or more
// automation entries. Views never mutate form state directly; they call
// controller operations and render what [Controller.State] and
// [Controller.Errors] return.
//
// # Steps
//
// The form has three steps, validated one at a time by [Controller.Advance]:
//
//   - [StepSubmitter]: a submitter must be selected
//   - [StepDepartment]: a department must be selected; "Other" additionally
//     needs a non-blank custom name
//   - [StepAutomations]: every entry needs a summary, the current process
//     and the desired outcome (pain points and tools are optional)
//
// Advancing past the last step does not move the step index. It starts a
// submission instead. Submission posts a [SubmitPayload] through a [Sender]
// and always ends in the confirmed state: delivery failures are logged and
// otherwise ignored.
//
// # Lifecycle
//
//	step1 ⇄ step2 ⇄ step3 → submitting → confirmed → Reset → step1
package intake
