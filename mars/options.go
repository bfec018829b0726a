package mars

import (
	"log/slog"

	"github.com/robert-malhotra/go-readmars/internal/camera"
)

// Option configures catalog, extraction and status display calls.
type Option func(*options)

type options struct {
	tree           string
	only           []string
	skip           map[string]bool
	vectorPrefixes []string
	verbose        bool
	logger         *slog.Logger
	pixels         *camera.Map
	statusName     string
	excluded       map[string]bool
	overflow       bool
	transform      bool
}

// DefaultStatusName is the key of the status display in a file.
const DefaultStatusName = "MStatusDisplay"

func defaultOptions() *options {
	return &options{
		vectorPrefixes: []string{"MSignalCam"},
		logger:         slog.New(slog.DiscardHandler),
		pixels:         camera.Default(),
		statusName:     DefaultStatusName,
		overflow:       true,
		transform:      true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTree restricts the catalog to one tree.
func WithTree(name string) Option {
	return func(o *options) {
		o.tree = name
	}
}

// WithLeaves restricts the catalog to the named leaves. Named leaves are
// returned even if their names mark them as bookkeeping columns.
func WithLeaves(names ...string) Option {
	return func(o *options) {
		o.only = append(o.only, names...)
	}
}

// WithoutLeaves excludes the named leaves from the catalog.
func WithoutLeaves(names ...string) Option {
	return func(o *options) {
		if o.skip == nil {
			o.skip = make(map[string]bool)
		}
		for _, n := range names {
			o.skip[n] = true
		}
	}
}

// WithVectorPrefixes sets the leaf name prefixes that mark per-pixel leaves,
// replacing the default "MSignalCam".
func WithVectorPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.vectorPrefixes = prefixes
	}
}

// WithVerbose lets the backend print its own diagnostics while projecting and
// raises skipped-leaf messages to warnings.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPixelMap sets the CHID/softID permutation. A nil map is ignored.
func WithPixelMap(m *camera.Map) Option {
	return func(o *options) {
		if m != nil {
			o.pixels = m
		}
	}
}

// WithStatusName sets the key of the status display object.
func WithStatusName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.statusName = name
		}
	}
}

// WithExcludedClasses drops objects of the given classes from the status index,
// in addition to text annotations and frames.
func WithExcludedClasses(classes ...string) Option {
	return func(o *options) {
		if o.excluded == nil {
			o.excluded = make(map[string]bool)
		}
		for _, c := range classes {
			o.excluded[c] = true
		}
	}
}

// WithOverflow sets whether histogram transforms include the underflow and
// overflow bins. The default is true.
func WithOverflow(include bool) Option {
	return func(o *options) {
		o.overflow = include
	}
}

// WithTransform sets whether ReadStatusDisplay transforms objects. With false
// the raw objects are returned.
func WithTransform(transform bool) Option {
	return func(o *options) {
		o.transform = transform
	}
}
