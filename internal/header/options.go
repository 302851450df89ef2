package header

type Options struct {
	RecordKey      string
	MobileMenuOpen bool
	LogoutDialog   DialogState
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		RecordKey:      DefaultRecordKey,
		MobileMenuOpen: false,
		LogoutDialog:   DialogClosed,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func WithRecordKey(key string) OptionFunc {
	return func(opts *Options) {
		opts.RecordKey = key
	}
}

// WithMobileMenuOpen restores the menu visibility carried by the current page.
func WithMobileMenuOpen(open bool) OptionFunc {
	return func(opts *Options) {
		opts.MobileMenuOpen = open
	}
}

// WithLogoutDialog restores the dialog state carried by the current page.
func WithLogoutDialog(state DialogState) OptionFunc {
	return func(opts *Options) {
		opts.LogoutDialog = state
	}
}
