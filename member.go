package zeroorm

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Member is a resolved, exported field of a struct type. Index is the path
// accepted by reflect.Value.FieldByIndex and may cross embedded structs.
type Member struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Get returns the member's value on v. It reports false when an embedded
// pointer on the path is nil.
func (m *Member) Get(v reflect.Value) (reflect.Value, bool) {
	v = reflect.Indirect(v)
	for i, x := range m.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// field returns the settable member value on v, allocating nil embedded
// pointers along the path.
func (m *Member) field(v reflect.Value) reflect.Value {
	v = reflect.Indirect(v)
	for i, x := range m.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

type memberKey struct {
	t    reflect.Type
	name string
}

// typeTable holds every addressable name of one struct type. Lookups try the
// exact name, then a case-insensitive match, then the name with underscores
// removed so that snake_case columns reach CamelCase fields.
type typeTable struct {
	exact map[string]*Member
	fold  map[string]*Member
	loose map[string]*Member
}

func (tt *typeTable) add(name string, m *Member) {
	if _, ok := tt.exact[name]; !ok {
		tt.exact[name] = m
	}
	lower := strings.ToLower(name)
	if _, ok := tt.fold[lower]; !ok {
		tt.fold[lower] = m
	}
	loose := strings.ReplaceAll(lower, "_", "")
	if _, ok := tt.loose[loose]; !ok {
		tt.loose[loose] = m
	}
}

func (tt *typeTable) lookup(name string) *Member {
	if m, ok := tt.exact[name]; ok {
		return m
	}
	lower := strings.ToLower(name)
	if m, ok := tt.fold[lower]; ok {
		return m
	}
	return tt.loose[strings.ReplaceAll(lower, "_", "")]
}

// MemberIndex memoizes member lookups per (type, name). Misses are cached as
// well. Entries are never evicted.
type MemberIndex struct {
	tagName string
	members sync.Map // memberKey -> *Member, nil when absent
	tables  sync.Map // reflect.Type -> *typeTable
	typeIDs sync.Map // reflect.Type -> uint64
	nextID  atomic.Uint64
	group   singleflight.Group
	lookups atomic.Int64
}

// NewMemberIndex returns an empty index that reads member names from the
// given struct tag in addition to the Go field names.
func NewMemberIndex(tagName string) *MemberIndex {
	return &MemberIndex{tagName: tagName}
}

// Resolve finds the member called name on t. Pointer types are dereferenced.
func (mi *MemberIndex) Resolve(t reflect.Type, name string) (*Member, bool) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, false
	}
	key := memberKey{t: t, name: name}
	if v, ok := mi.members.Load(key); ok {
		m := v.(*Member)
		return m, m != nil
	}
	mi.lookups.Add(1)
	m := mi.table(t).lookup(name)
	v, _ := mi.members.LoadOrStore(key, m)
	m = v.(*Member)
	return m, m != nil
}

// Lookups reports how many Resolve calls missed the cache.
func (mi *MemberIndex) Lookups() int64 {
	return mi.lookups.Load()
}

func (mi *MemberIndex) table(t reflect.Type) *typeTable {
	if v, ok := mi.tables.Load(t); ok {
		return v.(*typeTable)
	}
	v, _, _ := mi.group.Do(mi.typeKey(t), func() (any, error) {
		if v, ok := mi.tables.Load(t); ok {
			return v, nil
		}
		v, _ := mi.tables.LoadOrStore(t, buildTypeTable(t, mi.tagName))
		return v, nil
	})
	return v.(*typeTable)
}

func (mi *MemberIndex) typeKey(t reflect.Type) string {
	id, ok := mi.typeIDs.Load(t)
	if !ok {
		id, _ = mi.typeIDs.LoadOrStore(t, mi.nextID.Add(1))
	}
	return strconv.FormatUint(id.(uint64), 10)
}

func buildTypeTable(t reflect.Type, tagName string) *typeTable {
	tt := &typeTable{
		exact: map[string]*Member{},
		fold:  map[string]*Member{},
		loose: map[string]*Member{},
	}
	if t.Kind() != reflect.Struct {
		return tt
	}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || !reachable(t, f.Index) {
			continue
		}
		tag := ""
		if tagName != "" {
			tag, _, _ = strings.Cut(f.Tag.Get(tagName), ",")
		}
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" && indirectType(f.Type).Kind() == reflect.Struct {
			continue
		}
		m := &Member{Name: f.Name, Index: f.Index, Type: f.Type}
		if tag != "" {
			tt.add(tag, m)
		}
		tt.add(f.Name, m)
	}
	return tt
}

// reachable reports whether every embedded pointer on the path can be
// allocated through reflection.
func reachable(t reflect.Type, index []int) bool {
	for i := 1; i < len(index); i++ {
		f := t.FieldByIndex(index[:i])
		if f.Type.Kind() == reflect.Pointer && !f.IsExported() {
			return false
		}
	}
	return true
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
