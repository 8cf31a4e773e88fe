// Package emitter renders binary files as C headers: one byte array and one
// size constant per input, wrapped in an include guard.
package emitter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/vitalis-app/bin2c/internal/models"
)

// BytesPerLine is the number of byte literals on a full line of output.
const BytesPerLine = 16

var (
	// ErrNoInputs is returned when there is nothing to convert.
	ErrNoInputs = errors.New("no input files")

	// ErrSymbolCollision is returned in strict mode when two inputs of the
	// same set sanitize to the same symbol.
	ErrSymbolCollision = errors.New("symbol collision")
)

// Options controls how headers are generated.
type Options struct {
	// Progmem adds <pgmspace.h> and a PROGMEM attribute on every array.
	Progmem bool

	// StrictSymbols turns symbol collisions into errors instead of warnings.
	StrictSymbols bool

	// OutputDir is prepended to relative header paths.
	OutputDir string
}

// Emitter writes output sets to header files.
type Emitter struct {
	opts   Options
	logger *zap.Logger
}

// New creates an Emitter with the given options.
func New(opts Options, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{
		opts:   opts,
		logger: logger.Named("emitter"),
	}
}

// HeaderPath returns where the header for set will be written.
func (e *Emitter) HeaderPath(set models.OutputSet) string {
	path := set.HeaderPath()
	if e.opts.OutputDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.opts.OutputDir, path)
	}
	return path
}

// WriteSet creates the header file for set and returns its path.
// Every input is read before the header is created, so a missing input
// leaves nothing behind. Only Options.OutputDir is created if missing;
// directories named by the set itself must already exist.
func (e *Emitter) WriteSet(set models.OutputSet) (path string, err error) {
	if err := e.checkSet(set); err != nil {
		return "", err
	}
	files, err := loadInputs(set.Inputs)
	if err != nil {
		return "", err
	}

	if e.opts.OutputDir != "" {
		if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	path = e.HeaderPath(set)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	defer func() {
		err = multierr.Combine(err, w.Flush(), f.Close())
		if err != nil {
			path = ""
		}
	}()

	if err := e.render(w, set.Base, files); err != nil {
		return path, err
	}

	e.logger.Debug("Header written",
		zap.String("path", path),
		zap.Int("inputs", len(files)))
	return path, nil
}

// Render writes the header for set to w without touching the filesystem
// beyond reading the inputs.
func (e *Emitter) Render(w io.Writer, set models.OutputSet) error {
	if err := e.checkSet(set); err != nil {
		return err
	}
	files, err := loadInputs(set.Inputs)
	if err != nil {
		return err
	}
	return e.render(w, set.Base, files)
}

func (e *Emitter) checkSet(set models.OutputSet) error {
	if len(set.Inputs) == 0 {
		return ErrNoInputs
	}
	err := CheckCollisions(set.Inputs)
	if err == nil {
		return nil
	}
	if e.opts.StrictSymbols {
		return err
	}
	for _, c := range multierr.Errors(err) {
		e.logger.Warn("Duplicate symbol in output set",
			zap.String("output", set.Base),
			zap.Error(c))
	}
	return nil
}

// loadInputs reads the inputs one after another, in order.
func loadInputs(paths []string) ([]models.InputFile, error) {
	files := make([]models.InputFile, 0, len(paths))
	for _, p := range paths {
		in, err := ReadInput(p)
		if err != nil {
			return nil, err
		}
		files = append(files, in)
	}
	return files, nil
}

func (e *Emitter) render(w io.Writer, base string, files []models.InputFile) error {
	guard := GuardName(base)
	ew := &errWriter{w: w}
	ew.printf("#ifndef _%s_H\n#define _%s_H\n", guard, guard)
	if e.opts.Progmem {
		ew.printf("#include <pgmspace.h>\n")
	}
	ew.printf("#include <stddef.h>\n")
	if ew.err != nil {
		return ew.err
	}

	for _, in := range files {
		decl := models.Declaration{Symbol: Symbol(in.Path), Size: in.Size()}
		if err := WriteArray(w, decl.Symbol, in.Data, e.opts.Progmem); err != nil {
			return fmt.Errorf("writing %s: %w", decl.ArrayName(), err)
		}
		e.logger.Debug("Converted input",
			zap.String("input", in.Path),
			zap.String("symbol", decl.ArrayName()),
			zap.Int("size", decl.Size))
	}

	ew.printf("\n#endif\n")
	return ew.err
}

// ReadInput reads a whole input file. The file is closed before returning.
func ReadInput(path string) (models.InputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.InputFile{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.InputFile{}, fmt.Errorf("reading input: %w", err)
	}
	return models.InputFile{Path: path, Data: data}, nil
}

const hexDigits = "0123456789ABCDEF"

// WriteArray writes the <symbol>_start array and <symbol>_size constant for
// data. Full lines hold BytesPerLine literals; a trailing partial line keeps a
// separator after every literal. Empty data yields "{};".
func WriteArray(w io.Writer, symbol string, data []byte, progmem bool) error {
	decl := models.Declaration{Symbol: symbol, Size: len(data)}
	ew := &errWriter{w: w}

	attr := ""
	if progmem {
		attr = " PROGMEM"
	}
	ew.printf("const unsigned char %s[]%s = {", decl.ArrayName(), attr)
	if len(data) == 0 {
		ew.printf("};\n")
	} else {
		ew.printf("\n")
		line := make([]byte, 0, 1+BytesPerLine*6+1)
		for len(data) > 0 {
			n := BytesPerLine
			if len(data) < n {
				n = len(data)
			}
			ew.write(appendLine(line[:0], data[:n], n == BytesPerLine))
			data = data[n:]
		}
		ew.printf("};\n")
	}
	ew.printf("const size_t %s = sizeof(%s);\n", decl.SizeName(), decl.ArrayName())
	return ew.err
}

// appendLine renders one line of literals. A full line drops the space after
// the final comma.
func appendLine(dst, chunk []byte, full bool) []byte {
	dst = append(dst, '\t')
	for i, c := range chunk {
		dst = append(dst, '0', 'x', hexDigits[c>>4], hexDigits[c&0x0F], ',')
		if !full || i < len(chunk)-1 {
			dst = append(dst, ' ')
		}
	}
	return append(dst, '\n')
}

// errWriter keeps the first write error and turns later writes into no-ops.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(p)
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
