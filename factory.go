package bitmap

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/bitmap/backend"

	// Register the built-in platform backends.
	_ "github.com/gogpu/bitmap/backend/canvas"
	_ "github.com/gogpu/bitmap/backend/quartz"
)

// Factory creates bitmaps against one platform backend with one set of
// default options. Libraries should take a *Factory explicitly; the
// package-level functions below are the process-wide composition
// boundary for applications.
type Factory struct {
	platform backend.Platform
	defaults Options
}

// NewFactory builds a factory for the given defaults. An empty
// Backend field selects the registry default.
func NewFactory(defaults Options) (*Factory, error) {
	p, err := resolvePlatform(defaults.Backend)
	if err != nil {
		return nil, err
	}
	backend.Logger().Debug("bitmap: factory created", "backend", p.Name())
	return &Factory{platform: p, defaults: defaults}, nil
}

func resolvePlatform(name string) (backend.Platform, error) {
	if name != "" {
		p := backend.Get(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %q", backend.ErrNotRegistered, name)
		}
		return p, nil
	}
	p := backend.Default()
	if p == nil {
		return nil, backend.ErrNotRegistered
	}
	return p, nil
}

// Defaults returns the factory's default options.
func (f *Factory) Defaults() Options {
	return f.defaults
}

// Create creates a blank bitmap. A height of zero or less defaults to
// the width (a square bitmap). Per-call options are merged over the
// factory defaults.
func (f *Factory) Create(width, height int, opts *Options) (*Bitmap, error) {
	if height <= 0 {
		height = width
	}
	merged := f.defaults
	if opts != nil {
		merged = opts.merged(f.defaults)
	}
	p := f.platform
	if merged.Backend != "" && merged.Backend != p.Name() {
		rp, err := resolvePlatform(merged.Backend)
		if err != nil {
			return nil, err
		}
		p = rp
	}
	s, err := p.NewSurface(width, height, merged.backendOptions())
	if err != nil {
		return nil, err
	}
	return wrap(s, DefaultColor), nil
}

// AsBitmap converts a value into a Bitmap. Accepted forms:
//
//   - *Bitmap: returned as-is
//   - string: base64-encoded PNG or JPEG bytes, with or without a
//     leading "data:<mime>;base64," prefix
//   - []byte: raw encoded PNG or JPEG bytes
//   - image.Image: copied into a new bitmap
//   - backend.Surface: wrapped directly
//
// Anything else fails with ErrInvalidBitmapValue.
func (f *Factory) AsBitmap(v any) (*Bitmap, error) {
	switch b := v.(type) {
	case *Bitmap:
		if b == nil {
			return nil, ErrInvalidBitmapValue
		}
		return b, nil
	case backend.Surface:
		return wrap(b, DefaultColor), nil
	case string:
		raw, err := decodeBase64Value(b)
		if err != nil {
			return nil, err
		}
		return f.fromEncoded(raw)
	case []byte:
		return f.fromEncoded(b)
	case image.Image:
		return f.FromImage(b)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidBitmapValue, v)
	}
}

// TryAsBitmap is the non-failing form of AsBitmap: instead of an
// error it reports ok=false.
func (f *Factory) TryAsBitmap(v any) (*Bitmap, bool) {
	b, err := f.AsBitmap(v)
	if err != nil {
		return nil, false
	}
	return b, true
}

func decodeBase64Value(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBitmapValue, err)
	}
	return raw, nil
}

func (f *Factory) fromEncoded(raw []byte) (*Bitmap, error) {
	s, err := f.platform.Decode(raw, f.defaults.backendOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBitmapValue, err)
	}
	return wrap(s, DefaultColor), nil
}

// FromImage copies a standard image into a new bitmap.
func (f *Factory) FromImage(img image.Image) (*Bitmap, error) {
	if img == nil {
		return nil, ErrInvalidBitmapValue
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBitmapValue, err)
	}
	return f.fromEncoded(buf.Bytes())
}

// MakeMutable converts a value into a bitmap backed by a fresh mutable
// copy of its pixels. Accepted shapes: *Bitmap, backend.Surface and
// image.Image; anything else fails with ErrInvalidNativeObject.
//
// The staging strategy controls where the working copy lives while it
// is converted: in memory (default) or round-tripped through a
// temporary file in the cache, temp, or a custom directory. With
// DisposeCurrent the input bitmap is disposed once the copy exists.
func (f *Factory) MakeMutable(v any, opts *MutableOptions) (*Bitmap, error) {
	var o MutableOptions
	if opts != nil {
		o = *opts
	}

	var src *Bitmap
	switch val := v.(type) {
	case *Bitmap:
		if val == nil || val.disposed {
			return nil, ErrInvalidNativeObject
		}
		src = val
	case backend.Surface:
		if val.Disposed() {
			return nil, ErrInvalidNativeObject
		}
		src = wrap(val, DefaultColor)
	case image.Image:
		b, err := f.FromImage(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNativeObject, err)
		}
		// Already a fresh mutable copy; nothing to stage or dispose.
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidNativeObject, v)
	}

	raw, err := src.surface.Encode(backend.FormatPNG, 100)
	if err != nil {
		return nil, err
	}

	raw, err = stage(raw, o.Temp)
	if err != nil {
		return nil, err
	}

	out, err := f.fromEncoded(raw)
	if err != nil {
		return nil, err
	}
	if o.DisposeCurrent {
		src.Dispose(nil, nil)
	}
	return out, nil
}

// stage round-trips the encoded bytes through the configured staging
// area. The temporary file is removed on every exit path.
func stage(raw []byte, o TempOptions) ([]byte, error) {
	var dir string
	switch o.Strategy {
	case TempMemory:
		return raw, nil
	case TempCacheDir:
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("bitmap: no cache directory: %w", err)
		}
		dir = cache
	case TempExternalCacheDir:
		dir = os.TempDir()
	case TempCustom:
		if o.Directory == "" {
			return nil, fmt.Errorf("%w: custom temp strategy without directory", ErrInvalidNativeObject)
		}
		dir = o.Directory
	default:
		return nil, fmt.Errorf("%w: unknown temp strategy %d", ErrInvalidNativeObject, o.Strategy)
	}

	file, err := os.CreateTemp(dir, "bitmap-*.png")
	if err != nil {
		return nil, fmt.Errorf("bitmap: staging failed: %w", err)
	}
	name := file.Name()
	defer func() {
		_ = os.Remove(name)
	}()

	if _, err := file.Write(raw); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("bitmap: staging failed: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("bitmap: staging failed: %w", err)
	}
	return os.ReadFile(filepath.Clean(name))
}

// defaultFactory is the process-wide composition boundary. It is
// created lazily and persists for the application's lifetime; there is
// no automatic reset. Last writer wins on SetDefaultOptions.
var (
	factoryMu      sync.RWMutex
	defaultFactory *Factory
)

func ensureFactory() (*Factory, error) {
	factoryMu.RLock()
	f := defaultFactory
	factoryMu.RUnlock()
	if f != nil {
		return f, nil
	}

	factoryMu.Lock()
	defer factoryMu.Unlock()
	if defaultFactory == nil {
		f, err := NewFactory(Options{})
		if err != nil {
			return nil, err
		}
		defaultFactory = f
	}
	return defaultFactory, nil
}

// SetDefaultOptions replaces the process-wide default options read by
// every subsequent package-level Create call.
func SetDefaultOptions(o Options) error {
	f, err := NewFactory(o)
	if err != nil {
		return err
	}
	factoryMu.Lock()
	defaultFactory = f
	factoryMu.Unlock()
	return nil
}

// GetDefaultOptions returns the current process-wide default options.
func GetDefaultOptions() Options {
	f, err := ensureFactory()
	if err != nil {
		return Options{}
	}
	return f.Defaults()
}

// LoadDefaultOptions reads YAML options from r and installs them as
// the process-wide defaults.
func LoadDefaultOptions(r io.Reader) error {
	o, err := LoadOptions(r)
	if err != nil {
		return err
	}
	return SetDefaultOptions(o)
}

// Create creates a blank bitmap with the process-wide defaults.
// A height of zero or less defaults to the width.
func Create(width, height int, opts *Options) (*Bitmap, error) {
	f, err := ensureFactory()
	if err != nil {
		return nil, err
	}
	return f.Create(width, height, opts)
}

// AsBitmap converts a value into a Bitmap with the process-wide
// defaults. See Factory.AsBitmap for the accepted forms.
func AsBitmap(v any) (*Bitmap, error) {
	f, err := ensureFactory()
	if err != nil {
		return nil, err
	}
	return f.AsBitmap(v)
}

// TryAsBitmap is the non-failing form of AsBitmap.
func TryAsBitmap(v any) (*Bitmap, bool) {
	f, err := ensureFactory()
	if err != nil {
		return nil, false
	}
	return f.TryAsBitmap(v)
}

// MakeMutable converts a value into a mutable bitmap with the
// process-wide defaults. See Factory.MakeMutable.
func MakeMutable(v any, opts *MutableOptions) (*Bitmap, error) {
	f, err := ensureFactory()
	if err != nil {
		return nil, err
	}
	return f.MakeMutable(v, opts)
}
