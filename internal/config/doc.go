// Package config handles loading and validation of intake configuration.
//
// Configuration is read from ~/.config/intake/config.toml with environment
// variable overrides, then merged with an optional .intake.toml in the
// working directory.
//
// # Configuration Sources (highest priority first)
//
//   - .intake.toml in the working directory (webhook_url, submitters, departments)
//   - INTAKE_WEBHOOK_URL, INTAKE_DATA_DIR, INTAKE_THEME env vars
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - webhook_url: endpoint receiving submissions (absolute http/https URL)
//   - timeout: Go duration for the POST; "0s" means no timeout
//   - data_dir: history and exports (must be absolute or ~/...)
//   - history_limit: entries kept in history.json
//   - submitters, departments: the choices offered by the wizard
//   - [hooks.NAME]: commands run after a confirmed submission (see package hooks)
//
// The "Other" department is always present; it is appended to a
// departments list that lacks it.
package config
