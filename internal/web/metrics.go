package web

import "expvar"

// headerActions counts the header interactions handled by name.
var headerActions = expvar.NewMap("header_actions")
