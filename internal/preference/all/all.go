package all

import (
	_ "github.com/bornholm/deepidia/internal/preference/cookie"
	_ "github.com/bornholm/deepidia/internal/preference/redis"
	_ "github.com/bornholm/deepidia/internal/preference/sqlite"
)
