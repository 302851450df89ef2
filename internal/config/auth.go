package config

import "github.com/goccy/go-yaml"

type Auth struct {
	Providers AuthProviders `yaml:"providers"`
	Accounts  []Account     `yaml:"accounts"`
}

// Account is an email/password account seeded into the store at startup.
type Account struct {
	Email     InterpolatedString `yaml:"email"`
	FirstName InterpolatedString `yaml:"firstName"`
	Password  InterpolatedString `yaml:"password"`
}

type AuthProviders struct {
	Google OAuth2Provider `yaml:"google"`
	Github OAuth2Provider `yaml:"github"`
	Gitea  GiteaProvider  `yaml:"gitea"`
	OIDC   OIDCProvider   `yaml:"oidc"`
}

type OAuth2Provider struct {
	Key    InterpolatedString      `yaml:"key"`
	Secret InterpolatedString      `yaml:"secret"`
	Scopes InterpolatedStringSlice `yaml:"scopes"`
}

type OIDCProvider struct {
	OAuth2Provider `yaml:",inline"`
	DiscoveryURL   InterpolatedString `yaml:"discoveryUrl"`
	Icon           InterpolatedString `yaml:"icon"`
	Label          InterpolatedString `yaml:"label"`
}

type GiteaProvider struct {
	OAuth2Provider `yaml:",inline"`
	TokenURL       InterpolatedString `yaml:"tokenUrl"`
	AuthURL        InterpolatedString `yaml:"authUrl"`
	ProfileURL     InterpolatedString `yaml:"profileUrl"`
	Label          InterpolatedString `yaml:"label"`
}

func NewDefaultAuthConfig() Auth {
	return Auth{
		Providers: AuthProviders{
			Google: OAuth2Provider{
				Key:    "${DEEPIDIA_AUTH_GOOGLE_KEY}",
				Secret: "${DEEPIDIA_AUTH_GOOGLE_SECRET}",
				Scopes: InterpolatedStringSlice{"profile", "email"},
			},
			Github: OAuth2Provider{
				Key:    "${DEEPIDIA_AUTH_GITHUB_KEY}",
				Secret: "${DEEPIDIA_AUTH_GITHUB_SECRET}",
				Scopes: InterpolatedStringSlice{"user:email"},
			},
			Gitea: GiteaProvider{
				Label: "Gitea",
			},
			OIDC: OIDCProvider{
				Label: "OpenID Connect",
				Icon:  "fa-openid",
				OAuth2Provider: OAuth2Provider{
					Scopes: InterpolatedStringSlice{"openid", "profile", "email"},
				},
			},
		},
		Accounts: []Account{},
	}
}

func NewAuthConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":           []*yaml.Comment{yaml.HeadComment(" Auth configuration")},
		".providers": []*yaml.Comment{yaml.HeadComment(" OAuth2 identity providers", " A provider is enabled when both its key and secret are set")},
		".accounts": []*yaml.Comment{
			yaml.HeadComment(" Email/password accounts available on the sign in page"),
			yaml.FootComment(
				"accounts:",
				"  - email: jane@example.com",
				"    firstName: Jane",
				"    password: ${JANE_PASSWORD}",
			),
		},
	}
}
