package routing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoEligibleAccount is returned when every account is excluded,
// cooling down, or disabled. Check with errors.Is().
var ErrNoEligibleAccount = errors.New("no eligible account available")

// NoEligibleAccountError is returned by Choose when no account can serve
// the request right now. It carries enough detail for a useful log line
// and a structured caller-facing error.
type NoEligibleAccountError struct {
	// Total is the number of configured accounts.
	Total int

	// Excluded contains the accounts already tried in this request.
	Excluded []string
}

// Error implements the error interface.
func (e *NoEligibleAccountError) Error() string {
	if len(e.Excluded) == 0 {
		return fmt.Sprintf("no eligible account available (%d configured, all cooling down or disabled)", e.Total)
	}
	return fmt.Sprintf("no eligible account available (%d configured, already tried: %s)",
		e.Total, strings.Join(e.Excluded, ", "))
}

// Is implements error matching for errors.Is().
func (e *NoEligibleAccountError) Is(target error) bool {
	return target == ErrNoEligibleAccount
}
