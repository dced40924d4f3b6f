// Package flows defines the application's end-to-end verification flows.
package flows

import (
	"fmt"
	"sort"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

// Flow names.
const (
	DashboardName    = "dashboard"
	AgentsName       = "agents"
	TransparencyName = "transparency"
)

// Names lists every flow in run order.
func Names() []string {
	return []string{DashboardName, AgentsName, TransparencyName}
}

// Build returns the flow called name. mocks replaces the transparency
// flow's default mocks when non-nil.
func Build(name string, mocks []flow.MockResponse) (flow.Flow, error) {
	switch name {
	case DashboardName:
		return Dashboard(), nil
	case AgentsName:
		return Agents(nil), nil
	case TransparencyName:
		if mocks == nil {
			return DefaultTransparency()
		}
		return Transparency(mocks)
	}
	known := Names()
	sort.Strings(known)
	return flow.Flow{}, fmt.Errorf("unknown flow %q (known: %v)", name, known)
}

// Select builds the named flows, or every flow when names is empty.
func Select(names []string, mocks []flow.MockResponse) ([]flow.Flow, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]flow.Flow, 0, len(names))
	for _, n := range names {
		f, err := Build(n, mocks)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
