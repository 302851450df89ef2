package ui

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

const (
	PositionLeft   = "left"
	PositionRight  = "right"
	PositionMobile = "mobile"
)

const (
	StyleLink   = "link"
	StyleButton = "button"
)

// NavbarItem is a header link. When holds an optional expression evaluated
// against NavbarEnv, e.g. "!LoggedIn".
type NavbarItem struct {
	Label    string
	URL      string
	Icon     string
	Position string
	Style    string
	When     string
}

type NavbarEnv struct {
	LoggedIn bool
	Name     string
}

type navbarEntry struct {
	item    NavbarItem
	program *vm.Program
}

type Navbar struct {
	entries []navbarEntry
}

func NewNavbar(items ...NavbarItem) (*Navbar, error) {
	entries := make([]navbarEntry, 0, len(items))

	for _, item := range items {
		entry := navbarEntry{item: item}

		if item.Style == "" {
			entry.item.Style = StyleLink
		}

		if item.When != "" {
			program, err := expr.Compile(item.When, expr.Env(NavbarEnv{}), expr.AsBool())
			if err != nil {
				return nil, errors.Wrapf(err, "could not compile condition of navbar item '%s'", item.Label)
			}

			entry.program = program
		}

		entries = append(entries, entry)
	}

	return &Navbar{entries: entries}, nil
}

// Items returns the items of the given position visible in env, in
// declaration order.
func (n *Navbar) Items(position string, env NavbarEnv) ([]NavbarItem, error) {
	items := make([]NavbarItem, 0)

	for _, entry := range n.entries {
		if entry.item.Position != position {
			continue
		}

		if entry.program != nil {
			result, err := expr.Run(entry.program, env)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			visible, ok := result.(bool)
			if !ok {
				return nil, errors.Errorf("unexpected navbar item '%s' condition result type '%T', expected boolean", entry.item.Label, result)
			}

			if !visible {
				continue
			}
		}

		items = append(items, entry.item)
	}

	return items, nil
}

func DefaultNavbarItems() []NavbarItem {
	sections := []NavbarItem{
		{Label: "About", URL: "#about"},
		{Label: "Solutions", URL: "#solutions"},
		{Label: "Pricing", URL: "#pricing"},
	}

	items := make([]NavbarItem, 0)

	for _, position := range []string{PositionLeft, PositionMobile} {
		for _, s := range sections {
			s.Position = position
			items = append(items, s)
		}
	}

	items = append(items,
		NavbarItem{Label: "Sign In", URL: "/login", Position: PositionRight, When: "!LoggedIn"},
		NavbarItem{Label: "Try for free", URL: "/generator", Position: PositionRight, Style: StyleButton, When: "!LoggedIn"},
		NavbarItem{Label: "Sign In", URL: "/login", Position: PositionMobile, When: "!LoggedIn"},
		NavbarItem{Label: "Try for free", URL: "/generator", Position: PositionMobile, Style: StyleButton},
	)

	return items
}
