package zeroorm

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Mapper binds values to command placeholders and materializes rows into
// structs. A Mapper is safe for concurrent use.
type Mapper struct {
	index   *MemberIndex
	logger  *slog.Logger
	tagName string
	strict  bool
}

type MapperOption func(*Mapper)

// WithLogger sets the logger that receives unmapped placeholder and column
// diagnostics.
func WithLogger(logger *slog.Logger) MapperOption {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// WithStrict turns unmapped placeholders and columns into errors.
func WithStrict() MapperOption {
	return func(m *Mapper) {
		m.strict = true
	}
}

// WithTagName sets the struct tag read for column names. The default is "db".
func WithTagName(name string) MapperOption {
	return func(m *Mapper) {
		m.tagName = name
	}
}

func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{tagName: "db"}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.index = NewMemberIndex(m.tagName)
	return m
}

var (
	defaultMapper     *Mapper
	defaultMapperOnce sync.Once
)

// DefaultMapper is the process-wide mapper used when none is given.
func DefaultMapper() *Mapper {
	defaultMapperOnce.Do(func() {
		defaultMapper = NewMapper()
	})
	return defaultMapper
}

func orDefault(m *Mapper) *Mapper {
	if m == nil {
		return DefaultMapper()
	}
	return m
}

func (m *Mapper) Index() *MemberIndex {
	return m.index
}

func (m *Mapper) Logger() *slog.Logger {
	return m.logger
}

type valueKind uint8

const (
	kindScalar valueKind = iota
	kindParam
	kindParams
	kindComposite
)

func classify(value any) valueKind {
	switch value.(type) {
	case nil:
		return kindScalar
	case Param, *Param, sql.NamedArg, *sql.NamedArg:
		return kindParam
	case Params, []Param, []*Param, []sql.NamedArg:
		return kindParams
	case driver.Valuer, time.Time, *time.Time, []byte:
		return kindScalar
	}
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return kindComposite
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return kindComposite
		}
	}
	return kindScalar
}

// Bind derives the bindings for commandText from value. Extra bindings are
// merged first and take precedence over derived ones.
//
// A scalar value, or a single Param or sql.NamedArg, requires the command to
// reference exactly one placeholder. A parameter collection is used as is.
// Structs and string-keyed maps supply one binding per placeholder, looked up
// by member name.
func (m *Mapper) Bind(commandText string, value any, extra ...Param) (Params, error) {
	if strings.TrimSpace(commandText) == "" {
		return nil, ErrEmptyCommand
	}
	placeholders := ScanPlaceholders(commandText)
	switch classify(value) {
	case kindParam:
		name, err := single(placeholders)
		if err != nil {
			return nil, err
		}
		p := asParam(value)
		if p.Key() != trimSigil(name) {
			return nil, fmt.Errorf("%w: %q, command references %q", ErrParamNameMismatch, p.Name, name)
		}
		return merge(extra, Params{{Name: name, Value: dbValue(p.Value)}}), nil
	case kindParams:
		return merge(extra, toParams(value)), nil
	case kindComposite:
		return m.bindComposite(placeholders, value, extra)
	default:
		name, err := single(placeholders)
		if err != nil {
			return nil, err
		}
		return merge(extra, Params{{Name: name, Value: dbValue(value)}}), nil
	}
}

func single(placeholders Placeholders) (string, error) {
	if len(placeholders) != 1 {
		return "", fmt.Errorf("%w: found %d %s", ErrPlaceholderCount, len(placeholders), placeholders)
	}
	return placeholders[0], nil
}

func asParam(value any) Param {
	switch v := value.(type) {
	case Param:
		return v
	case *Param:
		if v != nil {
			return *v
		}
	case sql.NamedArg:
		return paramFromNamedArg(v)
	case *sql.NamedArg:
		if v != nil {
			return paramFromNamedArg(*v)
		}
	}
	return Param{}
}

func (m *Mapper) bindComposite(placeholders Placeholders, value any, extra Params) (Params, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNilValue
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map && rv.IsNil() {
		return nil, ErrNilValue
	}
	out := merge(extra)
	for _, name := range placeholders {
		if out.Has(name) {
			continue
		}
		v, ok := m.memberValue(rv, trimSigil(name))
		if !ok {
			if m.strict {
				return nil, fmt.Errorf("%w: %s on %s", ErrUnmappedPlaceholder, name, rv.Type())
			}
			m.logger.Debug("placeholder has no matching member", "placeholder", name, "type", rv.Type().String())
			continue
		}
		out = append(out, Param{Name: name, Value: dbValue(v)})
	}
	return out, nil
}

func (m *Mapper) memberValue(rv reflect.Value, name string) (any, bool) {
	if rv.Kind() == reflect.Map {
		return mapValue(rv, name)
	}
	member, ok := m.index.Resolve(rv.Type(), name)
	if !ok {
		return nil, false
	}
	fv, ok := member.Get(rv)
	if !ok {
		return nil, true
	}
	return fv.Interface(), true
}

func mapValue(rv reflect.Value, name string) (any, bool) {
	key := reflect.ValueOf(name).Convert(rv.Type().Key())
	if v := rv.MapIndex(key); v.IsValid() {
		return v.Interface(), true
	}
	iter := rv.MapRange()
	for iter.Next() {
		if strings.EqualFold(iter.Key().String(), name) {
			return iter.Value().Interface(), true
		}
	}
	return nil, false
}

// ParamOf builds an "@"-prefixed binding from the named member of entity.
// The binding is named after column when given, otherwise after the member.
func (m *Mapper) ParamOf(entity any, member string, column ...string) (Param, bool) {
	v, ok := m.valueOf(entity, member)
	if !ok {
		return Param{}, false
	}
	name := member
	if len(column) > 0 && column[0] != "" {
		name = column[0]
	}
	return Named(name, v), true
}

// LikeParamOf is ParamOf with the value wrapped for a substring LIKE match.
func (m *Mapper) LikeParamOf(entity any, member string, column ...string) (Param, bool) {
	p, ok := m.ParamOf(entity, member, column...)
	if !ok {
		return Param{}, false
	}
	if isNull(p.Value) {
		p.Value = "%%"
	} else {
		p.Value = fmt.Sprintf("%%%v%%", p.Value)
	}
	return p, true
}

func (m *Mapper) valueOf(entity any, member string) (any, bool) {
	rv := reflect.ValueOf(entity)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, false
	}
	return m.memberValue(reflect.Indirect(rv), member)
}

// SetValue assigns value to the named member of entity, which must be a
// non-nil struct pointer. Nil and Null values leave the member untouched.
func (m *Mapper) SetValue(entity any, member string, value any) error {
	if isNull(value) {
		return nil
	}
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, entity)
	}
	mb, ok := m.index.Resolve(rv.Type(), member)
	if !ok {
		m.logger.Debug("member not found", "member", member, "type", rv.Elem().Type().String())
		return nil
	}
	return assign(mb.field(rv.Elem()), value)
}
