// Package config loads build options for the irgen driver.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thiremani/irgen/bound"
	"github.com/thiremani/irgen/codegen"
)

// Entry convention names accepted in the entry field.
const (
	EntryProgram = "program"
	EntryScript  = "script"
	EntryNone    = "none"
)

// Options mirrors the YAML build file.
type Options struct {
	// Assembly is the name of the produced assembly. Required.
	Assembly string `yaml:"assembly"`
	// Entry is one of program, script or none.
	Entry string `yaml:"entry"`

	SequencePoints bool `yaml:"sequencePoints"`
	// Deterministic derives the module version id from the assembly name.
	Deterministic bool `yaml:"deterministic"`
	// Verify checks every generated procedure's structure.
	Verify   bool `yaml:"verify"`
	EmitLLVM bool `yaml:"emitLLVM"`

	// Output is the directory the .ir and .ll files are written to.
	Output string `yaml:"output"`
}

// Default returns the options used when no build file is given.
func Default() *Options {
	return &Options{
		Assembly: "main",
		Entry:    EntryProgram,
		Verify:   true,
		Output:   "build",
	}
}

// Load reads a build file. Fields it does not set keep their default values.
// Unknown fields are rejected so that typos do not go unnoticed.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading build file %s", path)
	}
	opts, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return opts, nil
}

// Parse decodes and validates a build file.
func Parse(r io.Reader) (*Options, error) {
	opts := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(opts); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing YAML")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) Validate() error {
	if o.Assembly == "" {
		return errors.New("assembly is required")
	}
	if _, err := o.EntryConvention(); err != nil {
		return err
	}
	if o.Output == "" {
		return errors.New("output is required")
	}
	return nil
}

func (o *Options) EntryConvention() (codegen.EntryConvention, error) {
	switch o.Entry {
	case EntryProgram:
		return codegen.ProgramEntry, nil
	case EntryScript:
		return codegen.ScriptEntry, nil
	case EntryNone, "":
		return codegen.NoEntry, nil
	}
	return codegen.NoEntry, errors.Errorf("entry must be %s, %s or %s, got %q", EntryProgram, EntryScript, EntryNone, o.Entry)
}

// EntryName is the inverse of EntryConvention.
func EntryName(c codegen.EntryConvention) string {
	switch c {
	case codegen.ProgramEntry:
		return EntryProgram
	case codegen.ScriptEntry:
		return EntryScript
	}
	return EntryNone
}

// Codegen converts the options for codegen.GenerateAssembly.
func (o *Options) Codegen(wk *bound.WellKnown) (codegen.Options, error) {
	entry, err := o.EntryConvention()
	if err != nil {
		return codegen.Options{}, err
	}
	return codegen.Options{
		Name:               o.Assembly,
		Mvid:               codegen.MvidFor(o.Assembly, o.Deterministic),
		Entry:              entry,
		EmitSequencePoints: o.SequencePoints,
		Verify:             o.Verify,
		WellKnown:          wk,
	}, nil
}
