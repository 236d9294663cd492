// Package statsview is an optional package that is only functional when
// the statsview build constraint is present.
//
// It provides a local HTTP server offering runtime statistics of the
// emulator, the underlying functionality is provided by
// "github.com/go-echarts/statsview". After launch the graphs are viewable at
//
//	<address>/debug/statsview
//
// and the standard Go pprof statistics at
//
//	<address>/debug/pprof/
package statsview
