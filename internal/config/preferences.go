package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bornholm/deepidia/internal/header"
	"github.com/bornholm/deepidia/internal/preference"
	"github.com/bornholm/deepidia/internal/preference/cookie"
	"github.com/bornholm/deepidia/internal/preference/redis"
	"github.com/bornholm/deepidia/internal/preference/sqlite"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Preferences configures where the visitor's local preference record is kept.
type Preferences struct {
	Type    InterpolatedString `yaml:"type"`
	Key     InterpolatedString `yaml:"key"`
	Options *InterpolatedMap   `yaml:"options"`
}

func NewDefaultPreferencesConfig() Preferences {
	return Preferences{
		Type: InterpolatedString(fmt.Sprintf("${DEEPIDIA_PREFERENCES_TYPE:-%s}", cookie.Type)),
		Key:  header.DefaultRecordKey,
		Options: &InterpolatedMap{
			Data: map[string]any{
				"keys": []any{"${DEEPIDIA_PREFERENCES_COOKIE_KEY}"},
			},
		},
	}
}

func NewPreferencesConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":      []*yaml.Comment{yaml.HeadComment(" Preference store configuration")},
		".type": []*yaml.Comment{yaml.HeadComment(" Preference store type", fmt.Sprintf(" Available: %v", preference.Registered()))},
		".key":  []*yaml.Comment{yaml.HeadComment(" Key of the signed in user record")},
		".options": []*yaml.Comment{
			yaml.HeadComment(" Preference store options"),
			getPreferencesOptionComment("Cookie preference store", cookie.DefaultOptions()),
			getPreferencesOptionComment("SQLite preference store", sqlite.DefaultOptions()),
			getPreferencesOptionComment("Redis preference store", redis.DefaultOptions()),
		},
	}
}

func getPreferencesOptionComment(message string, opts any) *yaml.Comment {
	rawOpts, err := yaml.Marshal(opts)
	if err != nil {
		panic(errors.WithStack(err))
	}

	comments := []string{message, "options:"}
	comments = append(comments, slices.Collect(func(yield func(string) bool) {
		for _, str := range strings.Split(strings.TrimSpace(string(rawOpts)), "\n") {
			if !yield("  " + str) {
				return
			}
		}
	})...)

	return yaml.FootComment(comments...)
}
