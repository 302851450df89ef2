package web

import (
	"embed"
	"html/template"

	"github.com/bornholm/deepidia/internal/ui"
	"github.com/pkg/errors"
)

//go:embed templates/**
var templateFs embed.FS

var templates *template.Template

func init() {
	tmpl, err := ui.Templates(nil, templateFs)
	if err != nil {
		panic(errors.WithStack(err))
	}

	templates = tmpl
}

type LoginTemplateData struct {
	Providers []LoginProvider
	Email     string
	Error     string
	CSRFField template.HTML
}

// PageTemplateData contains the data shared by every page
type PageTemplateData struct {
	ui.HeadTemplateData
	Header ui.HeaderTemplateData
	Login  *LoginTemplateData
}
