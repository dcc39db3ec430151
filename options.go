package bitmap

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/bitmap/backend"
)

// IOSOptions carries options that only the quartz backend honors.
type IOSOptions struct {
	// AutoRelease controls whether replaced snapshots are left for the
	// platform to reclaim (true, the default) or released explicitly.
	AutoRelease *bool `yaml:"autoRelease"`
}

// Options configures bitmap creation. The zero value selects the
// default backend, scale 1 and automatic snapshot release.
type Options struct {
	// Backend names the platform backend to use. Empty selects the
	// registry default.
	Backend string `yaml:"backend"`

	// Scale is the display density factor applied to text sizes by the
	// canvas backend. Zero means 1.
	Scale float64 `yaml:"scale"`

	// IOS holds quartz-only options; ignored by other backends.
	IOS IOSOptions `yaml:"ios"`
}

// merged overlays o on top of defaults, field by field.
func (o Options) merged(defaults Options) Options {
	out := defaults
	if o.Backend != "" {
		out.Backend = o.Backend
	}
	if o.Scale != 0 {
		out.Scale = o.Scale
	}
	if o.IOS.AutoRelease != nil {
		out.IOS.AutoRelease = o.IOS.AutoRelease
	}
	return out
}

// backendOptions lowers the options to the backend contract.
func (o Options) backendOptions() backend.Options {
	autoRelease := true
	if o.IOS.AutoRelease != nil {
		autoRelease = *o.IOS.AutoRelease
	}
	return backend.Options{
		AutoRelease: autoRelease,
		Scale:       o.Scale,
	}
}

// LoadOptions reads Options from YAML.
//
// Example:
//
//	backend: quartz
//	scale: 2
//	ios:
//	  autoRelease: false
func LoadOptions(r io.Reader) (Options, error) {
	var o Options
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&o); err != nil {
		return Options{}, fmt.Errorf("bitmap: failed to decode options: %w", err)
	}
	return o, nil
}

// TempStrategy selects where MakeMutable stages its working copy.
type TempStrategy int

const (
	// TempMemory stages the copy in memory.
	TempMemory TempStrategy = iota

	// TempCacheDir stages the copy in the user cache directory.
	TempCacheDir

	// TempExternalCacheDir stages the copy in the system temp
	// directory.
	TempExternalCacheDir

	// TempCustom stages the copy in TempOptions.Directory.
	TempCustom
)

// TempOptions configures the staging area for MakeMutable.
type TempOptions struct {
	Strategy TempStrategy `yaml:"strategy"`

	// Directory is the staging directory for TempCustom.
	Directory string `yaml:"directory"`
}

// MutableOptions configures MakeMutable.
type MutableOptions struct {
	// DisposeCurrent disposes the input bitmap once the mutable copy
	// has been produced.
	DisposeCurrent bool `yaml:"disposeCurrent"`

	Temp TempOptions `yaml:"temp"`
}
