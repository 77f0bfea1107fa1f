package app

import (
	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/rng"
	"github.com/stweave/stweave/internal/session"
	"github.com/stweave/stweave/items/device"
	"github.com/stweave/stweave/items/logfile"
	"github.com/stweave/stweave/items/loglevel"
	"github.com/stweave/stweave/items/monitor"
	"github.com/stweave/stweave/items/panichook"
	"github.com/stweave/stweave/items/savepath"
	"github.com/stweave/stweave/items/seed"
)

// coreItems is the definitive list of session items compiled into the
// stweave binary. Registration order is the order setters fire in during
// activation.
func coreItems(router *logging.Router, source *rng.Source) []session.Module {
	return []session.Module{
		loglevel.New(router),
		logfile.New(router),
		panichook.New(),
		savepath.New(),
		seed.New(source),
		device.New(),
		monitor.New(router),
	}
}
