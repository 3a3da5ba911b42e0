// Package tetra implements the Bowyer–Watson incremental Delaunay
// tetrahedralizer: it turns a closed triangulated surface, or a bare point
// cloud, into a conforming tetrahedral mesh.
package tetra

import (
	"io"
	"log"
)

// Options configures a call to Tetrahedralize or TetrahedralizePoints.
type Options struct {
	// Resolution controls interior sampling density (surface mode only).
	// 0 disables interior sampling entirely.
	Resolution int
	// MinQuality is the minimum |geom.Quality| a kept tet must have.
	MinQuality float64
	// Verbose enables logging of non-fatal degeneracies through Logger.
	Verbose bool
	// Logger receives verbose/warning output. Defaults to a logger that
	// discards output when nil.
	Logger *log.Logger
}

// DefaultOptions returns the zero-interior-sampling, unfiltered-quality
// configuration.
func DefaultOptions() Options {
	return Options{
		Resolution: 0,
		MinQuality: 0,
		Verbose:    false,
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Verbose {
		o.logger().Printf(format, args...)
	}
}
