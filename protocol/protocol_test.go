package protocol

import (
	"context"
	"errors"
	"testing"

	"github.com/md-rashed-zaman/pipetrack/libs/kvstore"
)

func TestOpen_RequiresConfirmByDefault(t *testing.T) {
	l := NewLauncher(kvstore.NewMemory(), nil)
	out, err := l.Open(context.Background(), SchemeTel, "tel:+15551234")
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeConfirm {
		t.Fatalf("outcome = %q, want confirm", out)
	}
}

func TestConfirm_RememberSkipsFutureprompts(t *testing.T) {
	var launched []string
	l := NewLauncher(kvstore.NewMemory(), map[string]Opener{
		SchemeSMS: {Launch: func(target string) error {
			launched = append(launched, target)
			return nil
		}},
	})
	ctx := context.Background()

	out, err := l.Confirm(ctx, Request{Scheme: SchemeSMS, Target: "sms:+1555"}, true, true)
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeLaunched {
		t.Fatalf("outcome = %q, want launched", out)
	}

	out, err = l.Open(ctx, SchemeSMS, "sms:+1666")
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeLaunched {
		t.Fatalf("second open outcome = %q, want launched", out)
	}
	if len(launched) != 2 || launched[1] != "sms:+1666" {
		t.Fatalf("launched = %v", launched)
	}
}

func TestConfirm_Declined(t *testing.T) {
	l := NewLauncher(kvstore.NewMemory(), nil)
	out, err := l.Confirm(context.Background(), Request{Scheme: SchemeTel, Target: "tel:+1"}, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeDeclined {
		t.Fatalf("outcome = %q, want declined", out)
	}
	// Declining must not opt the scheme in.
	out, _ = l.Open(context.Background(), SchemeTel, "tel:+1")
	if out != OutcomeConfirm {
		t.Fatalf("outcome after decline = %q, want confirm", out)
	}
}

func TestRun_FallbackWhenHandlerFails(t *testing.T) {
	var fell string
	l := NewLauncher(kvstore.NewMemory(), map[string]Opener{
		SchemeMailto: {
			Launch:   func(string) error { return errors.New("no handler") },
			Fallback: func(target string) { fell = target },
		},
	})
	out, err := l.Confirm(context.Background(), Request{Scheme: SchemeMailto, Target: "mailto:a@b.c"}, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeFallback {
		t.Fatalf("outcome = %q, want fallback", out)
	}
	if fell != "mailto:a@b.c" {
		t.Fatalf("fallback target = %q", fell)
	}
}

func TestRememberPersistsNamespacedKey(t *testing.T) {
	store := kvstore.NewMemory()
	l := NewLauncher(store, map[string]Opener{
		SchemeTel: {Launch: func(string) error { return nil }},
	})
	ctx := context.Background()

	if _, err := l.Confirm(ctx, Request{Scheme: SchemeTel, Target: "tel:+1"}, true, true); err != nil {
		t.Fatal(err)
	}
	v, ok, err := store.Get(ctx, "pipetrack_protocol_tel_always_allow")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "true" {
		t.Fatalf("flag = %q, %v; want the namespaced key set to true", v, ok)
	}
}
