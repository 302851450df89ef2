package web

import (
	"github.com/bornholm/deepidia/internal/header"
	"github.com/bornholm/deepidia/internal/ui"
	"github.com/pkg/errors"
)

type Options struct {
	Sessions       SessionProviderFunc
	Accounts       AccountAuthenticator
	Navbar         *ui.Navbar
	RecordKey      string
	LoginProviders []LoginProvider
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) (*Options, error) {
	opts := &Options{
		RecordKey:      header.DefaultRecordKey,
		LoginProviders: make([]LoginProvider, 0),
	}

	for _, fn := range funcs {
		fn(opts)
	}

	if opts.Navbar == nil {
		navbar, err := ui.NewNavbar(ui.DefaultNavbarItems()...)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		opts.Navbar = navbar
	}

	return opts, nil
}

func WithSessions(fn SessionProviderFunc) OptionFunc {
	return func(opts *Options) {
		opts.Sessions = fn
	}
}

func WithAccounts(accounts AccountAuthenticator) OptionFunc {
	return func(opts *Options) {
		opts.Accounts = accounts
	}
}

func WithNavbar(navbar *ui.Navbar) OptionFunc {
	return func(opts *Options) {
		opts.Navbar = navbar
	}
}

func WithRecordKey(key string) OptionFunc {
	return func(opts *Options) {
		opts.RecordKey = key
	}
}

func WithLoginProviders(providers ...LoginProvider) OptionFunc {
	return func(opts *Options) {
		opts.LoginProviders = providers
	}
}
