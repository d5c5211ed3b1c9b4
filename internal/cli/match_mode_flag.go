package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
)

const (
	matchModeFlagTypeName        = "matchMode"
	invalidMatchModeValueMessage = "invalid match mode '%s' (expected 'name' or 'relative_path')"
)

// matchModeFlagValue is a pflag.Value that validates the matching granularity
// at parse time. An empty target defers to the configuration file.
type matchModeFlagValue struct {
	target *ignore.MatchMode
}

// Set validates and stores the supplied matching granularity.
func (value *matchModeFlagValue) Set(input string) error {
	normalized := ignore.MatchMode(strings.ToLower(strings.TrimSpace(input)))
	if normalized != ignore.MatchModeName && normalized != ignore.MatchModeRelativePath {
		return fmt.Errorf(invalidMatchModeValueMessage, input)
	}
	*value.target = normalized
	return nil
}

// String returns the current granularity, or the empty string when unset.
func (value *matchModeFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return string(*value.target)
}

// Type names the flag value for help output.
func (value *matchModeFlagValue) Type() string {
	return matchModeFlagTypeName
}

// registerMatchModeFlag wires the --match-mode flag onto the flag set.
func registerMatchModeFlag(flagSet *pflag.FlagSet, target *ignore.MatchMode) {
	if flagSet == nil || target == nil {
		return
	}
	flagSet.Var(&matchModeFlagValue{target: target}, matchModeFlagName, matchModeFlagDescription)
}

var _ pflag.Value = (*matchModeFlagValue)(nil)
