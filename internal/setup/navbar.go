package setup

import (
	"context"

	"github.com/bornholm/deepidia/internal/config"
	"github.com/bornholm/deepidia/internal/ui"
	"github.com/pkg/errors"
)

func NewNavbarFromConfig(ctx context.Context, conf *config.Config) (*ui.Navbar, error) {
	items := make([]ui.NavbarItem, 0, len(conf.Navigation.Items))
	for _, i := range conf.Navigation.Items {
		items = append(items, ui.NavbarItem{
			Label:    string(i.Label),
			URL:      string(i.URL),
			Icon:     string(i.Icon),
			Position: string(i.Position),
			Style:    string(i.Style),
			When:     string(i.When),
		})
	}

	navbar, err := ui.NewNavbar(items...)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure navigation")
	}

	return navbar, nil
}
