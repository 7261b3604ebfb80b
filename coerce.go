package zeroorm

import (
	"database/sql"
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/oarkflow/date"
)

var (
	scannerType         = reflect.TypeFor[sql.Scanner]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	timeType            = reflect.TypeFor[time.Time]()
)

// Assign stores a raw column value into dst, which must be a non-nil pointer.
// It applies the same conversions the materializer uses for members.
func Assign(dst any, raw any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, dst)
	}
	return assign(rv.Elem(), raw)
}

// assign stores raw into dst. NULL resets dst to its zero value. Pointer
// members are allocated and filled with the coerced value, which covers
// nullable enums and other nullable scalars.
func assign(dst reflect.Value, raw any) error {
	if s, ok := scanner(dst); ok {
		if isNull(raw) {
			return s.Scan(nil)
		}
		return s.Scan(raw)
	}
	if isNull(raw) {
		dst.SetZero()
		return nil
	}
	dt := dst.Type()
	if dt.Kind() == reflect.Pointer {
		elem := reflect.New(dt.Elem())
		if err := assign(elem.Elem(), raw); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	src := reflect.ValueOf(raw)
	if src.Type().AssignableTo(dt) {
		dst.Set(src)
		return nil
	}
	return convert(dst, src)
}

func scanner(dst reflect.Value) (sql.Scanner, bool) {
	if !dst.CanAddr() || !reflect.PointerTo(dst.Type()).Implements(scannerType) {
		return nil, false
	}
	return dst.Addr().Interface().(sql.Scanner), true
}

func convert(dst, src reflect.Value) error {
	dt := dst.Type()
	if b, ok := src.Interface().([]byte); ok {
		if dt.Kind() == reflect.Slice && dt.Elem().Kind() == reflect.Uint8 {
			dst.Set(reflect.ValueOf(append([]byte(nil), b...)).Convert(dt))
			return nil
		}
		src = reflect.ValueOf(string(b))
	}
	dk, sk := dst.Kind(), src.Kind()

	if sk == reflect.String && dk != reflect.String && reflect.PointerTo(dt).Implements(textUnmarshalerType) {
		return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(src.String()))
	}
	switch {
	case isNumber(dk) && isNumber(sk):
		return convertNumber(dst, src)
	case dk == reflect.String && sk == reflect.String:
		dst.Set(src.Convert(dt))
	case dk == reflect.Bool && isInt(sk):
		dst.SetBool(src.Int() != 0)
	case dk == reflect.Bool && isUint(sk):
		dst.SetBool(src.Uint() != 0)
	case dk == reflect.Bool && sk == reflect.String:
		b, err := strconv.ParseBool(src.String())
		if err != nil {
			return conversionError(src, dt, err)
		}
		dst.SetBool(b)
	case isInt(dk) && sk == reflect.String:
		n, err := strconv.ParseInt(src.String(), 10, dt.Bits())
		if err != nil {
			return conversionError(src, dt, err)
		}
		dst.SetInt(n)
	case isUint(dk) && sk == reflect.String:
		n, err := strconv.ParseUint(src.String(), 10, dt.Bits())
		if err != nil {
			return conversionError(src, dt, err)
		}
		dst.SetUint(n)
	case isFloat(dk) && sk == reflect.String:
		f, err := strconv.ParseFloat(src.String(), dt.Bits())
		if err != nil {
			return conversionError(src, dt, err)
		}
		dst.SetFloat(f)
	case dk == reflect.String && (isNumber(sk) || sk == reflect.Bool):
		dst.SetString(fmt.Sprint(src.Interface()))
	case dt == timeType && sk == reflect.String:
		t, err := date.Parse(src.String())
		if err != nil {
			return conversionError(src, dt, err)
		}
		dst.Set(reflect.ValueOf(t))
	case src.Type().ConvertibleTo(dt):
		dst.Set(src.Convert(dt))
	default:
		return fmt.Errorf("zeroorm: cannot assign %s to %s", src.Type(), dt)
	}
	return nil
}

var (
	errOutOfRange = errors.New("value out of range")
	errFraction   = errors.New("value has a fractional part")
)

// convertNumber stores a numeric src into a numeric dst. Values that the
// destination cannot represent exactly are rejected.
func convertNumber(dst, src reflect.Value) error {
	dt := dst.Type()
	sk := src.Kind()
	switch dk := dst.Kind(); {
	case isInt(dk):
		var n int64
		switch {
		case isInt(sk):
			n = src.Int()
		case isUint(sk):
			u := src.Uint()
			if u > math.MaxInt64 {
				return conversionError(src, dt, errOutOfRange)
			}
			n = int64(u)
		default:
			f := src.Float()
			if f != math.Trunc(f) {
				return conversionError(src, dt, errFraction)
			}
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return conversionError(src, dt, errOutOfRange)
			}
			n = int64(f)
		}
		if dst.OverflowInt(n) {
			return conversionError(src, dt, errOutOfRange)
		}
		dst.SetInt(n)
	case isUint(dk):
		var u uint64
		switch {
		case isInt(sk):
			n := src.Int()
			if n < 0 {
				return conversionError(src, dt, errOutOfRange)
			}
			u = uint64(n)
		case isUint(sk):
			u = src.Uint()
		default:
			f := src.Float()
			if f != math.Trunc(f) {
				return conversionError(src, dt, errFraction)
			}
			if f < 0 || f >= math.MaxUint64 {
				return conversionError(src, dt, errOutOfRange)
			}
			u = uint64(f)
		}
		if dst.OverflowUint(u) {
			return conversionError(src, dt, errOutOfRange)
		}
		dst.SetUint(u)
	default:
		var f float64
		switch {
		case isInt(sk):
			f = float64(src.Int())
		case isUint(sk):
			f = float64(src.Uint())
		default:
			f = src.Float()
		}
		if dst.OverflowFloat(f) {
			return conversionError(src, dt, errOutOfRange)
		}
		dst.SetFloat(f)
	}
	return nil
}

func conversionError(src reflect.Value, dt reflect.Type, err error) error {
	return fmt.Errorf("zeroorm: converting %v (%s) to %s: %w", src.Interface(), src.Type(), dt, err)
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}
