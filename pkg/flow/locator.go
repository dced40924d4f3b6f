package flow

import (
	"fmt"
	"strings"
)

// By selects how a Locator resolves elements.
type By string

const (
	ByRole        By = "role"        // ARIA role plus accessible name
	ByText        By = "text"        // innermost element containing the text
	ByPlaceholder By = "placeholder" // form control by placeholder attribute
	ByCSS         By = "css"         // first element matching a CSS selector
)

// Locator identifies an element in the rendered document.
//
// Name matching is case-insensitive substring matching over
// whitespace-normalized text unless Exact is set.
type Locator struct {
	By    By
	Role  string // only for ByRole
	Name  string // accessible name, text, placeholder or CSS selector
	Exact bool
	Scope string // CSS selector; resolution is limited to its first match
}

// Role locates an element by ARIA role and accessible name.
// An empty name matches any element with the role.
func Role(role, name string) Locator {
	return Locator{By: ByRole, Role: role, Name: name}
}

// Heading locates a heading (h1-h6 or role=heading) by name.
func Heading(name string) Locator { return Role("heading", name) }

// Button locates a button by name.
func Button(name string) Locator { return Role("button", name) }

// Checkbox locates the first checkbox.
func Checkbox() Locator { return Role("checkbox", "") }

// Text locates the innermost element whose text contains s.
func Text(s string) Locator {
	return Locator{By: ByText, Name: s}
}

// Placeholder locates a form control by its placeholder.
func Placeholder(s string) Locator {
	return Locator{By: ByPlaceholder, Name: s}
}

// CSS locates the first element matching selector.
func CSS(selector string) Locator {
	return Locator{By: ByCSS, Name: selector}
}

// ExactMatch returns a copy of l that requires the whole normalized text
// to equal Name.
func (l Locator) ExactMatch() Locator {
	l.Exact = true
	return l
}

// Within returns a copy of l scoped to the first element matching scope.
func (l Locator) Within(scope string) Locator {
	l.Scope = scope
	return l
}

// Validate reports malformed locators before they reach the browser.
func (l Locator) Validate() error {
	switch l.By {
	case ByRole:
		if l.Role == "" {
			return fmt.Errorf("role locator without role")
		}
	case ByText, ByPlaceholder, ByCSS:
		if l.Name == "" {
			return fmt.Errorf("%s locator without value", l.By)
		}
	default:
		return fmt.Errorf("unknown locator kind %q", l.By)
	}
	return nil
}

func (l Locator) String() string {
	var b strings.Builder
	if l.Scope != "" {
		fmt.Fprintf(&b, "%s >> ", l.Scope)
	}
	switch l.By {
	case ByRole:
		b.WriteString("role=" + l.Role)
		if l.Name != "" {
			fmt.Fprintf(&b, "[name=%q", l.Name)
			if l.Exact {
				b.WriteString(" exact")
			}
			b.WriteString("]")
		}
	default:
		fmt.Fprintf(&b, "%s=%q", l.By, l.Name)
		if l.Exact {
			b.WriteString(" exact")
		}
	}
	return b.String()
}
