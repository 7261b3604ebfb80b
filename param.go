package zeroorm

import (
	"database/sql"
	"database/sql/driver"
	"reflect"
)

type null struct{}

func (null) Value() (driver.Value, error) { return nil, nil }
func (null) String() string               { return "NULL" }

// Null is bound in place of absent values. Drivers receive it as a SQL NULL.
var Null driver.Valuer = null{}

func isNull(v any) bool {
	_, ok := v.(null)
	return v == nil || ok
}

// Param is a named binding. Name carries its sigil.
type Param struct {
	Name  string
	Value any
}

// Named builds a binding for name, prefixing "@" when name has no sigil.
func Named(name string, value any) Param {
	if !hasSigil(name) {
		name = "@" + name
	}
	return Param{Name: name, Value: dbValue(value)}
}

// Key is the binding name without its sigil.
func (p Param) Key() string {
	return trimSigil(p.Name)
}

// Params is an ordered set of bindings. Names compare without their sigil.
type Params []Param

// Get returns the binding for name.
func (ps Params) Get(name string) (Param, bool) {
	key := trimSigil(name)
	for _, p := range ps {
		if p.Key() == key {
			return p, true
		}
	}
	return Param{}, false
}

func (ps Params) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// Add appends a binding unless one with the same name already exists.
func (ps *Params) Add(name string, value any) {
	p := Named(name, value)
	if ps.Has(p.Name) {
		return
	}
	*ps = append(*ps, p)
}

// Names lists the binding names in order.
func (ps Params) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// merge returns the bindings of every set in order, keeping the first binding
// of each name.
func merge(sets ...Params) Params {
	var n int
	for _, s := range sets {
		n += len(s)
	}
	out := make(Params, 0, n)
	for _, s := range sets {
		for _, p := range s {
			if out.Has(p.Name) {
				continue
			}
			if p.Value == nil {
				p.Value = Null
			}
			out = append(out, p)
		}
	}
	return out
}

// dbValue maps absent values to Null and dereferences pointers that are not
// driver values themselves.
func dbValue(v any) any {
	if v == nil {
		return Null
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null
		}
		if _, ok := v.(driver.Valuer); ok {
			return v
		}
		return dbValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
	}
	return v
}

func paramFromNamedArg(a sql.NamedArg) Param {
	return Param{Name: a.Name, Value: dbValue(a.Value)}
}

func toParams(value any) Params {
	switch v := value.(type) {
	case Params:
		return v
	case []Param:
		return Params(v)
	case []*Param:
		out := make(Params, 0, len(v))
		for _, p := range v {
			if p != nil {
				out = append(out, *p)
			}
		}
		return out
	case []sql.NamedArg:
		out := make(Params, 0, len(v))
		for _, a := range v {
			out = append(out, paramFromNamedArg(a))
		}
		return out
	}
	return nil
}
