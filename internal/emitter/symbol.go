package emitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Sanitize replaces every character outside [A-Za-z0-9_] with an underscore.
// Non-ASCII characters are replaced once per code point.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isIdentChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isIdentChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// Symbol derives the C identifier prefix for an input file from its base name.
// Directories are ignored, so "a/x.bin" and "b/x.bin" yield the same symbol.
func Symbol(path string) string {
	return Sanitize(filepath.Base(path))
}

// GuardName returns the include-guard stem for an output base name.
// The whole base name is used as given, directories included.
func GuardName(base string) string {
	return strings.ToUpper(Sanitize(base))
}

// CheckCollisions reports every input whose symbol was already taken by an
// earlier input of the same set. The returned error matches ErrSymbolCollision.
func CheckCollisions(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	var errs error
	for _, p := range inputs {
		sym := Symbol(p)
		if prev, ok := seen[sym]; ok {
			errs = multierr.Append(errs,
				fmt.Errorf("%w: %q and %q both map to %s", ErrSymbolCollision, prev, p, sym))
			continue
		}
		seen[sym] = p
	}
	return errs
}
