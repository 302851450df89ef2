package ui

import (
	"html/template"

	"github.com/bornholm/deepidia/internal/header"
	"github.com/pkg/errors"
)

// HeaderTemplateData feeds the "header" template.
type HeaderTemplateData struct {
	header.State

	// Page is the view rendered again after a header action.
	Page string

	LeftItems   []NavbarItem
	RightItems  []NavbarItem
	MobileItems []NavbarItem

	CSRFField template.HTML
}

func NewHeaderTemplateData(state header.State, navbar *Navbar, page string, csrfField template.HTML) (HeaderTemplateData, error) {
	data := HeaderTemplateData{
		State:     state,
		Page:      page,
		CSRFField: csrfField,
	}

	env := NavbarEnv{
		LoggedIn: state.LoggedIn,
		Name:     state.DisplayName,
	}

	var err error

	if data.LeftItems, err = navbar.Items(PositionLeft, env); err != nil {
		return data, errors.WithStack(err)
	}

	if data.RightItems, err = navbar.Items(PositionRight, env); err != nil {
		return data, errors.WithStack(err)
	}

	if data.MobileItems, err = navbar.Items(PositionMobile, env); err != nil {
		return data, errors.WithStack(err)
	}

	return data, nil
}
