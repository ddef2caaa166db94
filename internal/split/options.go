package split

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

// DefaultExtensions is the default image file allow-list.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// Options controls how a split is performed. Shared across every class
// in a dataset run.
type Options struct {
	Ratio      Ratio
	Move       bool     // move files instead of copying
	Seed       *int64   // nil = non-deterministic shuffle
	Shuffle    bool     // permute images before slicing
	Extensions []string // case-insensitive suffix allow-list

	Logger *slog.Logger // nil = slog.Default()

	// OnClass is invoked after each class is placed, in enumeration
	// order. Used by callers for progress display.
	OnClass func(ClassSummary)
}

// DefaultOptions returns Options with the standard defaults: shuffle on,
// copy mode, standard image extensions.
func DefaultOptions(ratio Ratio) Options {
	return Options{
		Ratio:      ratio,
		Shuffle:    true,
		Extensions: DefaultExtensions,
	}
}

func (o *Options) normalize() {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// newRand builds a locally-owned random source. With a seed the source
// is deterministic; each class gets a freshly reseeded source so runs
// are reproducible end to end.
func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func matchesExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
