package key

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"reflect"
	"strconv"
)

// class is the outcome of the capability probe for one argument.
type class int

const (
	classHashable class = iota
	classStructural
	classUnsupported
)

// merge combines probe outcomes; the whole signature degrades to the worst
// class found among its arguments.
func (c class) merge(o class) class {
	if o > c {
		return o
	}
	return c
}

// maxProbeDepth bounds the probe's recursion through pointers so cyclic
// values terminate. Values deeper than this are classed structural, where
// reflect.DeepEqual handles cycles.
const maxProbeDepth = 64

// classify probes one value for hashability.
//
// Scalars (bool, integers, floats, complex, string, nil) hash
// deterministically. Containers and structs are structural: their contents
// are probed only to detect unsupported leaves. Funcs, chans, and unsafe
// pointers have no usable equality, so any value containing one is
// unsupported.
func classify(v reflect.Value, depth int) class {
	if !v.IsValid() {
		return classHashable // untyped nil
	}
	if depth > maxProbeDepth {
		return classStructural
	}

	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return classHashable

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return classUnsupported

	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return classStructural
		}
		c := classify(v.Elem(), depth+1)
		return classStructural.merge(c)

	case reflect.Slice, reflect.Array:
		c := classStructural
		for i := 0; i < v.Len(); i++ {
			c = c.merge(classify(v.Index(i), depth+1))
			if c == classUnsupported {
				return c
			}
		}
		return c

	case reflect.Map:
		c := classStructural
		iter := v.MapRange()
		for iter.Next() {
			c = c.merge(classify(iter.Key(), depth+1))
			c = c.merge(classify(iter.Value(), depth+1))
			if c == classUnsupported {
				return c
			}
		}
		return c

	case reflect.Struct:
		c := classStructural
		for i := 0; i < v.NumField(); i++ {
			c = c.merge(classify(v.Field(i), depth+1))
			if c == classUnsupported {
				return c
			}
		}
		return c

	default:
		return classUnsupported
	}
}

// digest computes the canonical SHA-256 digest for a fully hashable
// signature: positional arguments in order, then canonicalized keyword
// pairs. The dynamic type of each argument is folded into the encoding, so
// numerically equal values of different types never collide.
func digest(args []any, kwargs []Pair) string {
	h := sha256.New()
	for _, a := range args {
		h.Write([]byte("a|"))
		writeScalar(h, a)
	}
	for _, p := range kwargs {
		h.Write([]byte("k|"))
		h.Write([]byte(strconv.Itoa(len(p.Name))))
		h.Write([]byte(":"))
		h.Write([]byte(p.Name))
		h.Write([]byte("="))
		writeScalar(h, p.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeScalar encodes a single hashable value as type:value.
func writeScalar(h hash.Hash, x any) {
	if x == nil {
		h.Write([]byte("nil;"))
		return
	}
	v := reflect.ValueOf(x)
	h.Write([]byte(v.Type().String()))
	h.Write([]byte(":"))

	switch v.Kind() {
	case reflect.Bool:
		h.Write([]byte(strconv.FormatBool(v.Bool())))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h.Write([]byte(strconv.FormatInt(v.Int(), 10)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h.Write([]byte(strconv.FormatUint(v.Uint(), 10)))
	case reflect.Float32, reflect.Float64:
		// Hex formatting is bit-exact, so 0.1 and the nearest float32 to
		// 0.1 encode differently even before the type tag is considered.
		h.Write([]byte(strconv.FormatFloat(v.Float(), 'x', -1, 64)))
	case reflect.Complex64, reflect.Complex128:
		h.Write([]byte(strconv.FormatComplex(v.Complex(), 'x', -1, 128)))
	case reflect.String:
		s := v.String()
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte(":"))
		h.Write([]byte(s))
	}
	h.Write([]byte(";"))
}
