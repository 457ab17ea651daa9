package selectable

import (
	"fmt"
	"strings"
)

// Policy governs when the override source is queried.
type Policy int

const (
	// Once fetches on first read and reuses the snapshot for the Enum's lifetime.
	Once Policy = iota
	// EveryTime fetches and merges on every read.
	EveryTime
)

func (p Policy) String() string {
	switch p {
	case Once:
		return "once"
	case EveryTime:
		return "everytime"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy reads a policy name. The empty string means Once.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return Once, nil
	case "everytime", "every_time":
		return EveryTime, nil
	default:
		return Once, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// UnmarshalText lets a Policy be read straight from configuration files.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
