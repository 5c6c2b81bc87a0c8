package hashkit

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// maxDepth bounds how far composite values are followed, which stops
// self-referencing pointers.
const maxDepth = 32

// Appender is implemented by values that define their own identity bytes.
// Only the bytes that identify the value should be appended, so that
// mutable attributes such as capacity do not move the value around.
type Appender interface {
	AppendHash(dst []byte) []byte
}

// AppendValue appends the canonical encoding of v to dst. Integers are
// written little endian at their own width, with int, uint and uintptr
// always taking 8 bytes so digests do not depend on the platform.
//
// Other values are walked by kind: pointers and interfaces are followed to
// what they hold, struct fields and array elements are written in order, and
// nested strings and sequences carry a length prefix. Addresses never reach
// the encoding, so two pointers to equal values encode alike. Channels, funcs
// and unsafe pointers have no stable encoding and panic; types holding them
// must implement Appender.
func AppendValue(dst []byte, v any) []byte {
	switch v := v.(type) {
	case nil:
		return dst
	case Appender:
		return v.AppendHash(dst)
	case []byte:
		return append(dst, v...)
	case string:
		return append(dst, v...)
	case bool:
		if v {
			return append(dst, 1)
		}
		return append(dst, 0)
	case int8:
		return append(dst, byte(v))
	case uint8:
		return append(dst, v)
	case int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case uint16:
		return binary.LittleEndian.AppendUint16(dst, v)
	case int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	case uint32:
		return binary.LittleEndian.AppendUint32(dst, v)
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, v)
	case int:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case uint:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case uintptr:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	case float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
	case encoding.BinaryMarshaler:
		if b, err := v.MarshalBinary(); err == nil {
			return append(dst, b...)
		}
	case fmt.Stringer:
		return append(dst, v.String()...)
	}
	return appendReflect(dst, reflect.ValueOf(v), 0)
}

func appendReflect(dst []byte, rv reflect.Value, depth int) []byte {
	if depth > maxDepth {
		panic(fmt.Sprintf("hashkit: %s nests deeper than %d levels, implement hashkit.Appender", rv.Type(), maxDepth))
	}
	if rv.CanInterface() && !isNilPointer(rv) {
		if a, ok := rv.Interface().(Appender); ok {
			return a.AppendHash(dst)
		}
	}
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return append(dst, 1)
		}
		return append(dst, 0)
	case reflect.Int8:
		return append(dst, byte(rv.Int()))
	case reflect.Int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(rv.Int()))
	case reflect.Int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(rv.Int()))
	case reflect.Uint8:
		return append(dst, byte(rv.Uint()))
	case reflect.Uint16:
		return binary.LittleEndian.AppendUint16(dst, uint16(rv.Uint()))
	case reflect.Uint32:
		return binary.LittleEndian.AppendUint32(dst, uint32(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return binary.LittleEndian.AppendUint64(dst, rv.Uint())
	case reflect.Float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(rv.Float())))
	case reflect.Float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(real(c)))
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(imag(c)))
	case reflect.String:
		if depth > 0 {
			dst = binary.AppendUvarint(dst, uint64(rv.Len()))
		}
		return append(dst, rv.String()...)
	case reflect.Pointer, reflect.Interface:
		// a presence byte keeps nil apart from a pointer to a zero value
		if rv.IsNil() {
			return append(dst, 0)
		}
		return appendReflect(append(dst, 1), rv.Elem(), depth+1)
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			dst = appendReflect(dst, rv.Field(i), depth+1)
		}
		return dst
	case reflect.Array, reflect.Slice:
		if depth == 0 && rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(dst, rv.Bytes()...)
		}
		dst = binary.AppendUvarint(dst, uint64(rv.Len()))
		for i := 0; i < rv.Len(); i++ {
			dst = appendReflect(dst, rv.Index(i), depth+1)
		}
		return dst
	}
	panic(fmt.Sprintf("hashkit: %s has no stable encoding, implement hashkit.Appender", rv.Type()))
}

func isNilPointer(rv reflect.Value) bool {
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
