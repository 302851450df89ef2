package oauth2

type Options struct {
	Providers   []Provider
	SessionName string
	Prefix      string
	LoginPath   string
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Providers:   make([]Provider, 0),
		SessionName: "deepidia_auth",
		Prefix:      "",
		LoginPath:   "/login",
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func WithProviders(providers ...Provider) OptionFunc {
	return func(opts *Options) {
		opts.Providers = providers
	}
}

func WithSessionName(sessionName string) OptionFunc {
	return func(opts *Options) {
		opts.SessionName = sessionName
	}
}

func WithPrefix(prefix string) OptionFunc {
	return func(opts *Options) {
		opts.Prefix = prefix
	}
}

// WithLoginPath sets the page listing the available providers.
func WithLoginPath(path string) OptionFunc {
	return func(opts *Options) {
		opts.LoginPath = path
	}
}
