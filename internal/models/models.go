// Package models defines the value types passed between the planner,
// the emitter and the command line front end.
package models

// InputFile is one binary file read fully into memory.
type InputFile struct {
	Path string
	Data []byte
}

// Size returns the exact byte count of the file contents.
func (f InputFile) Size() int {
	return len(f.Data)
}

// OutputSet is one generated header: a base name plus the ordered inputs
// it covers. The header is written to Base + ".h".
type OutputSet struct {
	Base   string
	Inputs []string
}

// HeaderPath returns the path of the header produced for this set.
func (s OutputSet) HeaderPath() string {
	return s.Base + ".h"
}

// Declaration describes the symbol pair emitted for one input.
type Declaration struct {
	Symbol string
	Size   int
}

// ArrayName is the name of the generated byte array.
func (d Declaration) ArrayName() string {
	return d.Symbol + "_start"
}

// SizeName is the name of the generated size constant.
func (d Declaration) SizeName() string {
	return d.Symbol + "_size"
}
