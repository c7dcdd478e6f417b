// Package prompt asks one-off questions outside the wizard, such as
// confirming a send or overwriting a config file.
package prompt
