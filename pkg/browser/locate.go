package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

// resolverJS is a function expression mapping a locator query to the first
// matching element, or null. Role names come from aria-label, then visible
// text, then the value of input buttons. Text locators pick the innermost
// element whose text matches so that a container never shadows its child.
const resolverJS = `(query) => {
	const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const want = norm(query.name);
	const match = (s) => {
		const got = norm(s);
		return query.exact ? got === want : got.toLowerCase().includes(want.toLowerCase());
	};
	let root = document.body;
	if (query.scope) {
		root = document.querySelector(query.scope);
	}
	if (!root) {
		return null;
	}
	const roles = {
		heading: 'h1,h2,h3,h4,h5,h6,[role=heading]',
		button: 'button,input[type=button],input[type=submit],input[type=reset],[role=button]',
		checkbox: 'input[type=checkbox],[role=checkbox]',
		textbox: 'input:not([type]),input[type=text],input[type=email],input[type=tel],textarea,[role=textbox]',
		combobox: 'select,[role=combobox]',
		link: 'a[href],[role=link]',
	};
	const all = (sel) => {
		const found = Array.from(root.querySelectorAll(sel));
		if (root !== document.body && root.matches && root.matches(sel)) {
			found.unshift(root);
		}
		return found;
	};
	switch (query.by) {
	case 'css':
		return all(query.name)[0] || null;
	case 'placeholder':
		return all('[placeholder]').find((el) => match(el.getAttribute('placeholder'))) || null;
	case 'role': {
		const sel = roles[query.role] || '[role=' + query.role + ']';
		const accName = (el) => el.getAttribute('aria-label') || el.innerText || el.textContent || el.value || '';
		return all(sel).find((el) => !want || match(accName(el))) || null;
	}
	case 'text': {
		const skip = new Set(['SCRIPT', 'STYLE', 'NOSCRIPT', 'TEMPLATE']);
		const hits = all('*').filter((el) => !skip.has(el.tagName) && match(el.textContent));
		return hits.find((el) => !hits.some((other) => other !== el && el.contains(other))) || null;
	}
	}
	return null;
}`

// resolveJS evaluates to the element for a single query.
const resolveJS = `(query) => (` + resolverJS + `)(query)`

// probeJS returns the index of the first query that resolves to a visible
// element, or -1. All queries are evaluated in the same tick.
const probeJS = `(queries) => {
	const resolve = ` + resolverJS + `;
	const visible = (el) => {
		if (!el || !el.isConnected) {
			return false;
		}
		const style = window.getComputedStyle(el);
		if (style.visibility === 'hidden' || style.display === 'none') {
			return false;
		}
		return el.getClientRects().length > 0;
	};
	for (let i = 0; i < queries.length; i++) {
		if (visible(resolve(queries[i]))) {
			return i;
		}
	}
	return -1;
}`

// query is the JSON shape resolverJS expects.
type query struct {
	By    string `json:"by"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name"`
	Exact bool   `json:"exact"`
	Scope string `json:"scope,omitempty"`
}

func queryOf(loc flow.Locator) query {
	return query{
		By:    string(loc.By),
		Role:  loc.Role,
		Name:  loc.Name,
		Exact: loc.Exact,
		Scope: loc.Scope,
	}
}

// visibleElement waits until loc is visible and returns the element it
// resolves to at that point.
func (s *Session) visibleElement(ctx context.Context, loc flow.Locator) (*rod.Element, error) {
	if _, err := s.FirstVisible(ctx, loc); err != nil {
		return nil, err
	}
	return s.element(ctx, loc)
}

// element waits until loc resolves, bounded by ctx.
func (s *Session) element(ctx context.Context, loc flow.Locator) (*rod.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	el, err := s.page.Context(ctx).ElementByJS(rod.Eval(resolveJS, queryOf(loc)))
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", loc, err)
	}
	return el, nil
}

// FirstVisible polls every candidate in one evaluation until one is visible.
// Locators are resolved from scratch on every poll.
func (s *Session) FirstVisible(ctx context.Context, locs ...flow.Locator) (int, error) {
	queries := make([]query, len(locs))
	for i, l := range locs {
		if err := l.Validate(); err != nil {
			return -1, err
		}
		queries[i] = queryOf(l)
	}

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		res, err := s.page.Context(ctx).Eval(probeJS, queries)
		if err != nil {
			return -1, fmt.Errorf("visibility probe: %w", err)
		}
		if idx := res.Value.Int(); idx >= 0 {
			return idx, nil
		}
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case <-ticker.C:
		}
	}
}
