package config

import (
	"fmt"
	"slices"
	"strings"
)

// Hook events. A hook runs when one of its "on" events matches the
// delivery result of a confirmed request.
const (
	HookOnDelivered = "delivered"
	HookOnFailed    = "failed"
	HookOnAll       = "all"
)

// ValidHookEvents lists the accepted values of a hook's "on" list.
var ValidHookEvents = []string{HookOnDelivered, HookOnFailed, HookOnAll}

// Hook is a shell command run after a request is confirmed, defined in
// a [hooks.NAME] table.
type Hook struct {
	Command     string   `toml:"command" json:"command"`
	Description string   `toml:"description,omitempty" json:"description,omitempty"`
	On          []string `toml:"on,omitempty" json:"on,omitempty"`
}

// validateHooks checks every hook has a command and known events.
func validateHooks(hooks map[string]Hook) error {
	names := make([]string, 0, len(hooks))
	for name := range hooks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		h := hooks[name]
		if strings.TrimSpace(h.Command) == "" {
			return fmt.Errorf("invalid hooks.%s: command must not be empty", name)
		}
		for _, on := range h.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidHookEvents); err != nil {
				return err
			}
		}
	}
	return nil
}
