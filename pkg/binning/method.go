// Package binning turns class boundaries into ranges and partitions rows
// into bins, in one dimension or across several via a bin-index tree.
//
// The engine works on row positions only; building the per-bin sub-tables
// is left to the caller.
package binning

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Method names a way of computing bin boundaries
type Method string

// Supported methods. The first seven delegate to the classify package.
const (
	EqualInterval         Method = "EqualInterval"
	Quantile              Method = "Quantile"
	StandardDeviation     Method = "StandardDeviation"
	ArithmeticProgression Method = "ArithmeticProgression"
	GeometricProgression  Method = "GeometricProgression"
	Jenks                 Method = "Jenks"
	CKMeans               Method = "CKMeans"
	IntervalSize          Method = "IntervalSize"
	Manual                Method = "Manual"
)

// Methods lists every supported method
var Methods = []Method{
	EqualInterval, Quantile, StandardDeviation, ArithmeticProgression,
	GeometricProgression, Jenks, CKMeans, IntervalSize, Manual,
}

// ParseMethod resolves a method name case-insensitively
func ParseMethod(name string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(name, string(m)) {
			return m, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeClassification, "unknown binning method %q", name).
		WithDetail("method", name)
}

// NeedsClasses reports whether the method is driven by a class count
func (m Method) NeedsClasses() bool {
	return m != IntervalSize && m != Manual
}

func (m Method) String() string { return string(m) }

// Instruction requests the binning of one column. A slice of instructions
// requests multi-dimensional binning.
type Instruction struct {
	Column        string    `json:"column" yaml:"column"`
	Method        Method    `json:"method,omitempty" yaml:"method,omitempty"`
	NumClasses    int       `json:"numClasses,omitempty" yaml:"numClasses,omitempty"`
	BinSize       float64   `json:"binSize,omitempty" yaml:"binSize,omitempty"`
	ManualClasses []float64 `json:"manualClasses,omitempty" yaml:"manualClasses,omitempty"`
}

// Defaults fill in the omitted fields of an instruction
type Defaults struct {
	Method     Method
	NumClasses int
}

// WithDefaults returns a copy of the instruction with an omitted method or
// class count replaced by d. Every default applied is logged as a warning.
func (in Instruction) WithDefaults(d Defaults, log *zap.Logger) Instruction {
	if log == nil {
		log = zap.NewNop()
	}
	out := in
	if out.Method == "" {
		out.Method = d.Method
		log.Warn("no binning method specified, using default",
			zap.String("column", in.Column),
			zap.Stringer("method", d.Method))
	}
	if out.NumClasses == 0 && out.Method.NeedsClasses() {
		out.NumClasses = d.NumClasses
		log.Warn("number of classes not specified, using default",
			zap.String("column", in.Column),
			zap.Int("num_classes", d.NumClasses))
	}
	return out
}
