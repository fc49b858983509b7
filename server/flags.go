package server

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var flagNames = []struct {
	bit  Flags
	name string
}{
	{FlagOne, "one"},
	{FlagOneLoop, "one-loop"},
	{FlagThreaded, "threaded"},
	{FlagDetachListen, "detach-listen"},
	{FlagPoll, "poll"},
	{FlagSystemd, "systemd"},
	{FlagNoSigpipe, "no-sigpipe"},
	{FlagNoSigterm, "no-sigterm"},
}

// String renders f as a comma-separated list of flag names, e.g.
// "poll,threaded" for FlagPool.
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.bit) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, ",")
}

// ParseFlags parses a comma-separated list of flag names back into a
// Flags bitset. An unknown name is reported rather than ignored.
func ParseFlags(s string) (Flags, error) {
	var out Flags
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, fn := range flagNames {
			if fn.name == part {
				out |= fn.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("server: unknown flag name %q", part)
		}
	}
	return out, nil
}

// MarshalYAML renders flags as their textual names instead of a raw
// bitmask integer, so hand-edited config files stay readable.
func (f Flags) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML accepts either the textual "poll,threaded" form or a
// plain integer bitmask, for compatibility with machine-generated
// config files.
func (f *Flags) UnmarshalYAML(value *yaml.Node) error {
	var asInt int
	if err := value.Decode(&asInt); err == nil {
		*f = Flags(asInt)
		return nil
	}
	var asString string
	if err := value.Decode(&asString); err != nil {
		return fmt.Errorf("server: flags must be a string or integer: %w", err)
	}
	parsed, err := ParseFlags(asString)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
