// Package bitmap creates and manipulates raster images through a
// platform-style backend model.
//
// # Overview
//
// bitmap unifies two native-graphics resource models behind one
// drawing facade: the canvas model (a mutable pixel buffer drawn into
// in place) and the quartz model (an immutable snapshot replaced on
// every draw). Application code targets the facade and stays agnostic
// of which model backs it.
//
// # Quick Start
//
//	import "github.com/gogpu/bitmap"
//
//	b, err := bitmap.Create(256, 256, nil)
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	b.DrawRect("256x256", nil, "#ff0000", "#ffff00")
//	b.DrawCircle(0, nil, "black", nil)
//
//	dataURL, err := b.ToDataURL(bitmap.FormatPNG, 100)
//
// # Loose inputs
//
// Colors, points, sizes and fonts accept both records and strings:
// "#ff0000", "red", "10|20", "100x50". Nil arguments mean "use the
// default" (default color, origin, full extent). Absent inputs are
// defaulted; malformed inputs always fail.
//
// # Backends
//
// Backends register themselves in the backend package's registry; the
// built-in canvas and quartz models are registered by importing this
// package. Select one explicitly with Options.Backend or let the
// registry pick the default.
//
// # Resource model
//
// A Bitmap exclusively owns its native resource. Producers (Clone,
// Crop, Resize, Rotate) return new instances; Dispose releases the
// resource and is terminal. Bitmaps are not safe for concurrent use.
package bitmap

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
