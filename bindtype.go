package zeroorm

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Bindvar is the placeholder style a driver accepts.
type Bindvar int

const (
	UNKNOWN Bindvar = iota
	NAMED
	QUESTION
	DOLLAR
)

func (b Bindvar) String() string {
	switch b {
	case NAMED:
		return "NAMED"
	case QUESTION:
		return "QUESTION"
	case DOLLAR:
		return "DOLLAR"
	}
	return "UNKNOWN"
}

var defaultBinds = map[Bindvar][]string{
	DOLLAR:   {"postgres", "pgx", "pgx/v5", "pq-timeouts", "cloudsqlpostgres", "cockroach", "nrpostgres"},
	QUESTION: {"mysql", "nrmysql"},
	NAMED:    {"sqlserver", "mssql", "azuresql", "sqlite", "sqlite3", "nrsqlite3"},
}

var binds sync.Map

func init() {
	for bind, drivers := range defaultBinds {
		for _, driverName := range drivers {
			BindDriver(driverName, bind)
		}
	}
}

// BindType returns the bind style of driverName, or UNKNOWN.
func BindType(driverName string) Bindvar {
	if b, ok := binds.Load(driverName); ok {
		return b.(Bindvar)
	}
	return UNKNOWN
}

// BindDriver sets the bind style of driverName, overriding any earlier one.
func BindDriver(driverName string, b Bindvar) {
	binds.Store(driverName, b)
}

// Compile produces the query and driver arguments for commandText and its
// bindings. NAMED and UNKNOWN styles keep the text and pass sql.NamedArg
// values. QUESTION and DOLLAR styles rewrite every placeholder occurrence to
// the positional form; DOLLAR reuses the ordinal of a repeated name.
func (b Bindvar) Compile(commandText string, params Params) (string, []any, error) {
	switch b {
	case QUESTION, DOLLAR:
	default:
		args := make([]any, len(params))
		for i, p := range params {
			args[i] = sql.Named(p.Key(), driverArg(p.Value))
		}
		return commandText, args, nil
	}

	toks := tokens(commandText)
	var (
		sb       strings.Builder
		args     = make([]any, 0, len(toks))
		ordinals = map[string]int{}
		last     int
	)
	sb.Grow(len(commandText))
	for _, t := range toks {
		p, ok := params.Get(t.name)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnboundPlaceholder, t.name)
		}
		sb.WriteString(commandText[last:t.start])
		last = t.end
		if b == QUESTION {
			sb.WriteByte('?')
			args = append(args, driverArg(p.Value))
			continue
		}
		n, seen := ordinals[p.Key()]
		if !seen {
			args = append(args, driverArg(p.Value))
			n = len(args)
			ordinals[p.Key()] = n
		}
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	sb.WriteString(commandText[last:])
	return sb.String(), args, nil
}

// driverArg turns Null into nil and named basic kinds such as enums into
// their underlying type, which every driver accepts.
func driverArg(v any) any {
	if isNull(v) {
		return nil
	}
	if _, ok := v.(driver.Valuer); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Type().PkgPath() == "" {
		return v
	}
	switch k := rv.Kind(); {
	case k == reflect.Bool:
		return rv.Bool()
	case isInt(k):
		return rv.Int()
	case isUint(k):
		return rv.Uint()
	case isFloat(k):
		return rv.Float()
	case k == reflect.String:
		return rv.String()
	case k == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return rv.Bytes()
	}
	return v
}
