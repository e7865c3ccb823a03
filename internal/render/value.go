// Package render models the rendering context built per generation request
// and the data-shaping pass that enriches caller-supplied data before it is
// merged into a template.
package render

import (
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindRecord
	KindList
)

// Value is a tagged rendering value: string, number, boolean, nested
// record, or list. Using an explicit sum instead of raw interface values
// keeps the data-processor transformations exhaustively checkable.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	rec  map[string]Value
	list []Value
}

func Null() Value               { return Value{kind: KindNull} }
func String(s string) Value     { return Value{kind: KindString, str: s} }
func Number(f float64) Value    { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func List(vs []Value) Value     { return Value{kind: KindList, list: vs} }
func Record(m map[string]Value) Value {
	return Value{kind: KindRecord, rec: m}
}

// FromJSON converts a decoded JSON value into a tagged Value.
func FromJSON(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case string:
		return String(x)
	case float64:
		return Number(x)
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case bool:
		return Bool(x)
	case map[string]any:
		rec := make(map[string]Value, len(x))
		for k, el := range x {
			rec[k] = FromJSON(el)
		}
		return Record(rec)
	case []any:
		list := make([]Value, len(x))
		for i, el := range x {
			list[i] = FromJSON(el)
		}
		return List(list)
	default:
		return Null()
	}
}

func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric payload and whether the value is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Field returns a record field.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	f, ok := v.rec[name]
	return f, ok
}

// Elems returns the list payload, or nil for non-lists.
func (v Value) Elems() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Text renders the value as substitution text.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, len(v.list))
		for i, el := range v.list {
			parts[i] = el.Text()
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Truthy reports presence for the tem.* flags: empty string, zero, false,
// null, empty list, and empty record all coerce to false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	case KindRecord:
		return len(v.rec) > 0
	case KindList:
		return len(v.list) > 0
	default:
		return false
	}
}

// Context is the ordered variable-to-value mapping handed to the renderer.
// It is built fresh per generation request and never persisted.
type Context struct {
	keys []string
	vals map[string]Value
}

// NewContext returns an empty rendering context.
func NewContext() *Context {
	return &Context{vals: make(map[string]Value)}
}

// Set inserts or replaces a binding. First insertion fixes the key order.
func (c *Context) Set(key string, v Value) {
	if _, exists := c.vals[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.vals[key] = v
}

// Get returns a direct binding.
func (c *Context) Get(key string) (Value, bool) {
	v, ok := c.vals[key]
	return v, ok
}

// Resolve looks up a possibly dotted tag such as "tem.cpf", descending
// into records one segment at a time.
func (c *Context) Resolve(tag string) (Value, bool) {
	segs := strings.Split(tag, ".")
	v, ok := c.vals[segs[0]]
	if !ok {
		return Value{}, false
	}
	for _, seg := range segs[1:] {
		v, ok = v.Field(seg)
		if !ok {
			return Value{}, false
		}
	}
	return v, true
}

// Keys returns the binding order.
func (c *Context) Keys() []string { return c.keys }

// Len returns the number of bindings.
func (c *Context) Len() int { return len(c.vals) }
