package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/eval"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

// Int returns the parser of signed integers of the given bit size.
func Int[T signed](id string, bits int) *Scalar[T] {
	s := NewScalar(id, func(str string) (T, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(str), 10, bits)
		return T(n), numErr(err)
	})
	s.from = func(v any) (T, bool) {
		f, ok := eval.ToFloat(v)
		if !ok || f != math.Trunc(f) || float64(T(f)) != f {
			return 0, false
		}
		return T(f), true
	}
	return s
}

// Uint returns the parser of unsigned integers of the given bit size.
func Uint[T unsigned](id string, bits int) *Scalar[T] {
	s := NewScalar(id, func(str string) (T, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(str), 10, bits)
		return T(n), numErr(err)
	})
	s.from = func(v any) (T, bool) {
		f, ok := eval.ToFloat(v)
		if !ok || f < 0 || f != math.Trunc(f) || float64(T(f)) != f {
			return 0, false
		}
		return T(f), true
	}
	return s
}

// Float returns the parser of floating point numbers of the given bit
// size.
func Float[T float](id string, bits int) *Scalar[T] {
	s := NewScalar(id, func(str string) (T, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(str), bits)
		if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			err = fmt.Errorf("not a finite number")
		}
		return T(f), numErr(err)
	})
	s.from = func(v any) (T, bool) {
		f, ok := eval.ToFloat(v)
		return T(f), ok
	}
	return s
}

// numErr drops the strconv wrapping, which repeats the input.
func numErr(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

// bounded adds inclusive bounds to a numeric parser. Values outside are
// reported and fail.
func bounded[T signed | unsigned | float](s *Scalar[T], sp schema.Spec) (*Scalar[T], error) {
	lo, hasLo, err := sp.Float("Minimum")
	if err != nil {
		return nil, err
	}
	hi, hasHi, err := sp.Float("Maximum")
	if err != nil {
		return nil, err
	}
	if !hasLo && !hasHi {
		return s, nil
	}
	s.check = func(a *schema.ParseArgs, n *ir.Node, v T) bool {
		f := float64(v)
		switch {
		case hasLo && f < lo:
			a.Report(diag.InvalidValue, n, "%v is less than the minimum %v", v, lo)
			return false
		case hasHi && f > hi:
			a.Report(diag.InvalidValue, n, "%v is greater than the maximum %v", v, hi)
			return false
		}
		return true
	}
	return s, nil
}

func intFactory[T signed](bits int) func(id string) schema.Factory {
	return func(id string) schema.Factory {
		return func(sp schema.Spec, _ *schema.Builder) (schema.Type, error) {
			return bounded(Int[T](id, bits), sp)
		}
	}
}

func uintFactory[T unsigned](bits int) func(id string) schema.Factory {
	return func(id string) schema.Factory {
		return func(sp schema.Spec, _ *schema.Builder) (schema.Type, error) {
			return bounded(Uint[T](id, bits), sp)
		}
	}
}

func floatFactory[T float](bits int) func(id string) schema.Factory {
	return func(id string) schema.Factory {
		return func(sp schema.Spec, _ *schema.Builder) (schema.Type, error) {
			return bounded(Float[T](id, bits), sp)
		}
	}
}
