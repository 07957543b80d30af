// Package canon builds canonical, type-tagged keys from argument lists.
//
// Two argument lists produce the same key only when they have the same length
// and every position holds a value of the same dynamic type with the same
// structure. The integer 1, the int64 1 and the string "1" never collide, and
// the order of arguments is significant.
//
// Maps are encoded with their entries sorted, so iteration order never leaks
// into a key. Pointers and interfaces are followed, which means two distinct
// pointers to equal values share a key.
package canon

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Policy decides what happens to values without a structural form.
type Policy int

const (
	// Strict rejects functions, channels and unsafe pointers.
	Strict Policy = iota

	// BestEffort encodes such values by their String method when they
	// have one, and by identity (type and address) otherwise.
	//
	// Identity is coarse for functions: every closure created from the same
	// function literal shares one code address, so two closures capturing
	// different values produce the same key.
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case BestEffort:
		return "best-effort"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// Encoder turns argument lists into canonical keys.
// The zero value uses the Strict policy.
type Encoder struct {
	Policy Policy
}

// Key encodes args with the Strict policy.
func Key(args ...any) (string, error) {
	return Encoder{}.Key(args...)
}

// Key encodes args. Calling it with no arguments yields "[]".
func (e Encoder) Key(args ...any) (string, error) {
	st := &state{
		policy:   e.Policy,
		buf:      &strings.Builder{},
		visiting: map[visit]struct{}{},
	}
	st.buf.WriteByte('[')
	for i, arg := range args {
		if i > 0 {
			st.buf.WriteByte(',')
		}
		st.path = append(st.path[:0], "args["+strconv.Itoa(i)+"]")
		if err := st.encode(reflect.ValueOf(arg)); err != nil {
			return "", &SerializationError{
				ArgIndex: i,
				Path:     strings.Join(st.path, ""),
				Err:      err,
			}
		}
	}
	st.buf.WriteByte(']')
	return st.buf.String(), nil
}

// visit identifies a reference currently on the encoding path.
type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

type state struct {
	policy   Policy
	buf      *strings.Builder
	visiting map[visit]struct{}
	path     []string
}

func (st *state) enter(v visit) error {
	if _, ok := st.visiting[v]; ok {
		return fmt.Errorf("%w: %s", ErrCyclicArgument, v.typ)
	}
	st.visiting[v] = struct{}{}
	return nil
}

func (st *state) leave(v visit) {
	delete(st.visiting, v)
}

func (st *state) push(segment string) {
	st.path = append(st.path, segment)
}

func (st *state) pop() {
	st.path = st.path[:len(st.path)-1]
}

func (st *state) tag(t reflect.Type) {
	st.buf.WriteString(typeName(t))
	st.buf.WriteByte(':')
}

func (st *state) encode(v reflect.Value) error {
	if !v.IsValid() {
		st.buf.WriteString("nil")
		return nil
	}

	t := v.Type()
	switch v.Kind() {
	case reflect.Bool:
		st.tag(t)
		st.buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		st.tag(t)
		st.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		st.tag(t)
		st.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		st.tag(t)
		st.buf.WriteString(formatFloat(v.Float(), t.Bits()))
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		st.tag(t)
		st.buf.WriteByte('(')
		st.buf.WriteString(formatFloat(real(c), t.Bits()/2))
		st.buf.WriteByte(',')
		st.buf.WriteString(formatFloat(imag(c), t.Bits()/2))
		st.buf.WriteByte(')')
	case reflect.String:
		st.tag(t)
		st.buf.WriteString(strconv.Quote(v.String()))
	case reflect.Slice:
		return st.encodeSlice(v)
	case reflect.Array:
		st.tag(t)
		return st.encodeElems(v)
	case reflect.Map:
		return st.encodeMap(v)
	case reflect.Struct:
		return st.encodeStruct(v)
	case reflect.Pointer:
		if v.IsNil() {
			st.tag(t)
			st.buf.WriteString("nil")
			return nil
		}
		ref := visit{ptr: v.Pointer(), typ: t}
		if err := st.enter(ref); err != nil {
			return err
		}
		st.tag(t)
		st.buf.WriteByte('&')
		if err := st.encode(v.Elem()); err != nil {
			return err
		}
		st.leave(ref)
	case reflect.Interface:
		if v.IsNil() {
			st.buf.WriteString("nil")
			return nil
		}
		return st.encode(v.Elem())
	default:
		return st.encodeOpaque(v)
	}
	return nil
}

func (st *state) encodeSlice(v reflect.Value) error {
	t := v.Type()
	st.tag(t)
	if v.IsNil() {
		st.buf.WriteString("nil")
		return nil
	}
	if t.Elem().Kind() == reflect.Uint8 {
		st.buf.WriteString(strconv.Quote(string(v.Bytes())))
		return nil
	}

	ref := visit{ptr: v.Pointer(), len: v.Len(), typ: t}
	if err := st.enter(ref); err != nil {
		return err
	}
	if err := st.encodeElems(v); err != nil {
		return err
	}
	st.leave(ref)
	return nil
}

func (st *state) encodeElems(v reflect.Value) error {
	st.buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			st.buf.WriteByte(',')
		}
		st.push("[" + strconv.Itoa(i) + "]")
		if err := st.encode(v.Index(i)); err != nil {
			return err
		}
		st.pop()
	}
	st.buf.WriteByte(']')
	return nil
}

type mapEntry struct {
	key, value string
}

func (st *state) encodeMap(v reflect.Value) error {
	t := v.Type()
	if v.IsNil() {
		st.tag(t)
		st.buf.WriteString("nil")
		return nil
	}

	ref := visit{ptr: v.Pointer(), typ: t}
	if err := st.enter(ref); err != nil {
		return err
	}

	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := st.encodeDetached(iter.Key(), "[key]")
		if err != nil {
			return err
		}
		val, err := st.encodeDetached(iter.Value(), "["+k+"]")
		if err != nil {
			return err
		}
		entries = append(entries, mapEntry{key: k, value: val})
	}
	// NaN keys encode identically, so ties are broken on the value.
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.value, b.value)
	})

	st.tag(t)
	st.buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			st.buf.WriteByte(',')
		}
		st.buf.WriteString(e.key)
		st.buf.WriteByte(':')
		st.buf.WriteString(e.value)
	}
	st.buf.WriteByte('}')
	st.leave(ref)
	return nil
}

// encodeDetached encodes v into its own string while sharing the cycle and
// path bookkeeping of st.
func (st *state) encodeDetached(v reflect.Value, segment string) (string, error) {
	outer := st.buf
	st.buf = &strings.Builder{}
	st.push(segment)
	err := st.encode(v)
	out := st.buf.String()
	st.buf = outer
	if err != nil {
		return "", err
	}
	st.pop()
	return out, nil
}

func (st *state) encodeStruct(v reflect.Value) error {
	t := v.Type()
	st.tag(t)
	st.buf.WriteByte('{')
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if i > 0 {
			st.buf.WriteByte(',')
		}
		st.buf.WriteString(f.Name)
		st.buf.WriteByte(':')
		st.push("." + f.Name)
		if err := st.encode(v.Field(i)); err != nil {
			return err
		}
		st.pop()
	}
	st.buf.WriteByte('}')
	return nil
}

func (st *state) encodeOpaque(v reflect.Value) error {
	t := v.Type()
	if st.policy != BestEffort {
		return fmt.Errorf("%w: %s", ErrUnserializable, t)
	}

	st.tag(t)
	if v.IsNil() {
		st.buf.WriteString("nil")
		return nil
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			st.buf.WriteByte('~')
			st.buf.WriteString(strconv.Quote(s.String()))
			return nil
		}
	}
	st.buf.WriteString("@0x")
	st.buf.WriteString(strconv.FormatUint(uint64(v.Pointer()), 16))
	return nil
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// typeName spells t with every named component fully qualified, so that
// same-named types from different packages never share a name.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.Name()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeName(t.Elem())
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + typeName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + typeName(t.Elem())
		default:
			return "chan " + typeName(t.Elem())
		}
	case reflect.Func:
		return funcTypeName(t)
	case reflect.Struct:
		var b strings.Builder
		b.WriteString("struct{")
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(memberName(f.PkgPath, f.Name))
			b.WriteByte(' ')
			b.WriteString(typeName(f.Type))
			if f.Tag != "" {
				b.WriteByte(' ')
				b.WriteString(strconv.Quote(string(f.Tag)))
			}
		}
		b.WriteByte('}')
		return b.String()
	case reflect.Interface:
		var b strings.Builder
		b.WriteString("interface{")
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(memberName(m.PkgPath, m.Name))
			b.WriteString(strings.TrimPrefix(funcTypeName(m.Type), "func"))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return t.String()
	}
}

func funcTypeName(t reflect.Type) string {
	var b strings.Builder
	b.WriteString("func(")
	for i := 0; i < t.NumIn(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if t.IsVariadic() && i == t.NumIn()-1 {
			b.WriteString("..." + typeName(t.In(i).Elem()))
			continue
		}
		b.WriteString(typeName(t.In(i)))
	}
	b.WriteByte(')')
	switch t.NumOut() {
	case 0:
	case 1:
		b.WriteString(" " + typeName(t.Out(0)))
	default:
		b.WriteString(" (")
		for i := 0; i < t.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(typeName(t.Out(i)))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// memberName qualifies unexported field and method names with their package.
func memberName(pkgPath, name string) string {
	if pkgPath != "" {
		return pkgPath + "." + name
	}
	return name
}
