//go:build statsview

package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

const url = "/debug/statsview"

// Launch starts the statistics server on the given address in a new goroutine.
func Launch(logger *log.Logger, address string) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(address))
		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server available", log.String("url", "http://"+address+url))
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
