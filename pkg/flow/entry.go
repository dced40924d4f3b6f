package flow

import (
	"context"
	"fmt"
	"strings"
)

// EntryVariant names one of the alternative UIs a page can present for the
// same entry point.
type EntryVariant string

const (
	PopulatedList EntryVariant = "populated-list"
	EmptyState    EntryVariant = "empty-state"
)

// Entry is a candidate control for a ChooseEntry step.
type Entry struct {
	Variant EntryVariant
	Locator Locator
}

type chooseEntryStep struct {
	entries []Entry
	onPick  func(EntryVariant)
}

// ChooseEntry resolves which of the candidate controls the page shows and
// clicks it. The choice is made by one visibility probe that evaluates all
// candidates together; the first visible candidate in declaration order
// wins. onPick, if set, receives the chosen variant.
func ChooseEntry(onPick func(EntryVariant), entries ...Entry) Step {
	return chooseEntryStep{entries: entries, onPick: onPick}
}

func (s chooseEntryStep) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = fmt.Sprintf("%s(%s)", e.Variant, e.Locator)
	}
	return "choose entry " + strings.Join(parts, " | ")
}

func (s chooseEntryStep) Run(ctx context.Context, env *Env) error {
	if len(s.entries) == 0 {
		return &ActionError{Action: "choose entry", Err: fmt.Errorf("no candidates")}
	}
	locs := make([]Locator, len(s.entries))
	for i, e := range s.entries {
		if err := e.Locator.Validate(); err != nil {
			return &ActionError{Action: "choose entry", Locator: e.Locator, Err: err}
		}
		locs[i] = e.Locator
	}

	pctx, cancel := withTimeout(ctx, env.Timeout)
	idx, err := env.Page.FirstVisible(pctx, locs...)
	cancel()
	if err != nil {
		return &AssertionError{Locator: locs[0], Candidates: locs, Timeout: env.Timeout, Err: err}
	}
	if idx < 0 || idx >= len(s.entries) {
		return &ActionError{Action: "choose entry", Err: fmt.Errorf("probe returned candidate %d of %d", idx, len(s.entries))}
	}

	chosen := s.entries[idx]
	env.Logger.Info("entry point resolved", "variant", chosen.Variant, "locator", chosen.Locator.String())
	if s.onPick != nil {
		s.onPick(chosen.Variant)
	}

	cctx, cancel := withTimeout(ctx, env.Timeout)
	defer cancel()
	if err := env.Page.Click(cctx, chosen.Locator); err != nil {
		return &ActionError{Action: "click", Locator: chosen.Locator, Err: err}
	}
	return nil
}
