package include

import (
	"strings"

	errs "github.com/matzehuels/shaderinc/pkg/errors"
)

// ParseInvocation validates the arguments of a build-time invocation and
// returns the root path literal. Exactly one non-empty argument is accepted.
// A double-quoted argument ("shaders/main.frag") is unwrapped; the quotes
// are stripped verbatim with no unescaping.
func ParseInvocation(args []string) (string, error) {
	if len(args) != 1 {
		return "", errs.MalformedInvocation("takes 1 argument and the argument must be a string literal, got %d arguments", len(args))
	}
	arg := args[0]
	if strings.HasPrefix(arg, `"`) || strings.HasSuffix(arg, `"`) {
		if len(arg) < 2 || !strings.HasPrefix(arg, `"`) || !strings.HasSuffix(arg, `"`) {
			return "", errs.MalformedInvocation("unterminated string literal %s", arg)
		}
		arg = arg[1 : len(arg)-1]
	}
	if strings.TrimSpace(arg) == "" {
		return "", errs.MalformedInvocation("path argument must not be empty")
	}
	return arg, nil
}
