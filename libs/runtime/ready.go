package runtime

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ReadyCheck is a named startup dependency check.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

// Probe runs every check with a 2s timeout each and returns one error
// listing all failures, or nil when every dependency answered.
func Probe(ctx context.Context, checks ...ReadyCheck) error {
	var failures []string
	for _, check := range checks {
		if check.Check == nil {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check.Check(cctx)
		cancel()
		if err != nil {
			name := check.Name
			if name == "" {
				name = "dependency"
			}
			failures = append(failures, name+": "+err.Error())
		}
	}
	if len(failures) > 0 {
		return errors.New(strings.Join(failures, "; "))
	}
	return nil
}
