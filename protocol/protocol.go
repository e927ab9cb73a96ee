// Package protocol decides how external handler links (tel, sms, mailto) are
// launched: straight through when the user has opted in for that scheme,
// otherwise via a confirmation step.
package protocol

import (
	"context"

	"github.com/md-rashed-zaman/pipetrack/libs/kvstore"
)

// Supported schemes.
const (
	SchemeTel    = "tel"
	SchemeSMS    = "sms"
	SchemeMailto = "mailto"
)

// Outcome reports what the launcher did with a request.
type Outcome string

const (
	// OutcomeLaunched means the opener ran without asking.
	OutcomeLaunched Outcome = "launched"
	// OutcomeConfirm means the caller must show a confirmation and call
	// Confirm with the user's answer.
	OutcomeConfirm Outcome = "confirm"
	// OutcomeFallback means the preferred opener failed and the default
	// action ran instead.
	OutcomeFallback Outcome = "fallback"
	// OutcomeDeclined means the user refused the confirmation.
	OutcomeDeclined Outcome = "declined"
)

// Opener performs the platform-specific launch for one target. Fallback is
// the in-app default used when the external handler fails; it may be nil.
type Opener struct {
	Launch   func(target string) error
	Fallback func(target string)
}

// Request is one pending launch.
type Request struct {
	Scheme string
	Target string
}

// Launcher gates protocol launches behind per-scheme opt-in flags persisted
// in a key-value store.
type Launcher struct {
	store   kvstore.Store
	openers map[string]Opener
}

func NewLauncher(store kvstore.Store, openers map[string]Opener) *Launcher {
	return &Launcher{store: store, openers: openers}
}

func allowKey(scheme string) string {
	return kvstore.Key("protocol", scheme, "always_allow")
}

// Open launches target if the scheme is opted in, otherwise asks the caller
// to confirm. Unknown schemes always require confirmation.
func (l *Launcher) Open(ctx context.Context, scheme, target string) (Outcome, error) {
	v, ok, err := l.store.Get(ctx, allowKey(scheme))
	if err != nil {
		return "", err
	}
	if ok && v == "true" {
		return l.run(scheme, target), nil
	}
	return OutcomeConfirm, nil
}

// Confirm resolves a pending request. When the user accepts with remember
// set, the scheme is opted in for future launches.
func (l *Launcher) Confirm(ctx context.Context, req Request, accepted, remember bool) (Outcome, error) {
	if !accepted {
		return OutcomeDeclined, nil
	}
	if remember {
		if err := l.store.Set(ctx, allowKey(req.Scheme), "true"); err != nil {
			return "", err
		}
	}
	return l.run(req.Scheme, req.Target), nil
}

// run invokes the scheme's opener, falling back to the default action when
// the external handler fails.
func (l *Launcher) run(scheme, target string) Outcome {
	op, ok := l.openers[scheme]
	if !ok || op.Launch == nil {
		if ok && op.Fallback != nil {
			op.Fallback(target)
		}
		return OutcomeFallback
	}
	if err := op.Launch(target); err != nil {
		if op.Fallback != nil {
			op.Fallback(target)
		}
		return OutcomeFallback
	}
	return OutcomeLaunched
}
