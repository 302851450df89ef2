package config

import (
	"github.com/bornholm/deepidia/internal/ui"
	"github.com/goccy/go-yaml"
)

type Navigation struct {
	Items []NavigationItem `yaml:"items"`
}

type NavigationItem struct {
	Label    InterpolatedString `yaml:"label"`
	URL      InterpolatedString `yaml:"url"`
	Icon     InterpolatedString `yaml:"icon,omitempty"`
	Position InterpolatedString `yaml:"position"`
	Style    InterpolatedString `yaml:"style,omitempty"`
	When     InterpolatedString `yaml:"when,omitempty"`
}

func NewDefaultNavigationConfig() Navigation {
	defaults := ui.DefaultNavbarItems()

	items := make([]NavigationItem, 0, len(defaults))
	for _, i := range defaults {
		items = append(items, NavigationItem{
			Label:    InterpolatedString(i.Label),
			URL:      InterpolatedString(i.URL),
			Icon:     InterpolatedString(i.Icon),
			Position: InterpolatedString(i.Position),
			Style:    InterpolatedString(i.Style),
			When:     InterpolatedString(i.When),
		})
	}

	return Navigation{
		Items: items,
	}
}

func NewNavigationConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                   []*yaml.Comment{yaml.HeadComment(" Header navigation configuration")},
		".items":             []*yaml.Comment{yaml.HeadComment(" Header links")},
		".items[0].position": []*yaml.Comment{yaml.HeadComment(" One of 'left', 'right' or 'mobile'")},
		".items[0].when": []*yaml.Comment{
			yaml.HeadComment(" Optional visibility condition, with 'LoggedIn' and 'Name' in scope", " See https://expr-lang.org/docs/language-definition"),
		},
	}
}
