package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type HTTP struct {
	Address   InterpolatedString `yaml:"address"`
	BaseURL   InterpolatedString `yaml:"baseUrl"`
	Session   Session            `yaml:"session"`
	CSRF      CSRF               `yaml:"csrf"`
	RateLimit RateLimit          `yaml:"rateLimit"`
	Debug     InterpolatedBool   `yaml:"debug"`
}

type Session struct {
	Keys   InterpolatedStringSlice `yaml:"keys"`
	Cookie Cookie                  `yaml:"cookie"`
}

type Cookie struct {
	Name     InterpolatedString    `yaml:"name"`
	Path     InterpolatedString    `yaml:"path"`
	HTTPOnly InterpolatedBool      `yaml:"httpOnly"`
	Secure   InterpolatedBool      `yaml:"secure"`
	MaxAge   *InterpolatedDuration `yaml:"maxAge"`
}

type CSRF struct {
	Key    InterpolatedString `yaml:"key"`
	Secure InterpolatedBool   `yaml:"secure"`
}

type RateLimit struct {
	Rate  InterpolatedFloat `yaml:"rate"`
	Burst InterpolatedInt   `yaml:"burst"`
}

func NewDefaultHTTPConfig() HTTP {
	return HTTP{
		Address: "${DEEPIDIA_HTTP_ADDRESS:-:8080}",
		BaseURL: "${DEEPIDIA_HTTP_BASE_URL:-http://localhost:8080}",
		Session: Session{
			Keys: InterpolatedStringSlice{"${DEEPIDIA_HTTP_SESSION_KEY}"},
			Cookie: Cookie{
				Name:     "deepidia_auth",
				Path:     "/",
				HTTPOnly: true,
				Secure:   false,
				MaxAge:   NewInterpolatedDuration(24 * time.Hour),
			},
		},
		CSRF: CSRF{
			Key:    "${DEEPIDIA_HTTP_CSRF_KEY}",
			Secure: false,
		},
		RateLimit: RateLimit{
			Rate:  0.2,
			Burst: 5,
		},
		Debug: false,
	}
}

func NewHTTPConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                       []*yaml.Comment{yaml.HeadComment(" Webserver configuration")},
		".address":               []*yaml.Comment{yaml.HeadComment(" Webserver's listening address")},
		".baseUrl":               []*yaml.Comment{yaml.HeadComment(" Public base URL, used to build the OAuth2 callback URLs")},
		".session":               []*yaml.Comment{yaml.HeadComment(" Authentication session configuration")},
		".session.keys":          []*yaml.Comment{yaml.HeadComment(" Session cookie signing keys", " A random key is generated when empty, sessions will not survive a restart")},
		".session.cookie.name":   []*yaml.Comment{yaml.HeadComment(" Name of the authentication session cookie")},
		".session.cookie.maxAge": []*yaml.Comment{yaml.HeadComment(" Session lifetime")},
		".csrf":                  []*yaml.Comment{yaml.HeadComment(" Cross-site request forgery protection of the header and login forms")},
		".csrf.key":              []*yaml.Comment{yaml.HeadComment(" 32 bytes authentication key", " A random key is generated when empty")},
		".rateLimit":             []*yaml.Comment{yaml.HeadComment(" Rate limit of the login form submissions, per client address")},
		".rateLimit.rate":        []*yaml.Comment{yaml.HeadComment(" Allowed submissions per second")},
		".debug":                 []*yaml.Comment{yaml.HeadComment(" Expose the profiling and metrics endpoints under /debug/")},
	}
}
