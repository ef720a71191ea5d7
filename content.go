package reqlog

import (
	"errors"
	"fmt"
	"sort"
)

// Field names a part of the request that can go into the "request started"
// log line
type Field string

// Field values
const (
	FieldParams  Field = "params"  // route variables
	FieldQuery   Field = "query"   // URL query parameters
	FieldBody    Field = "body"    // request body
	FieldHeaders Field = "headers" // request headers
	FieldCookies Field = "cookies" // request cookies, name to value
	FieldIP      Field = "ip"      // client IP address
)

// AllFields lists all fields in the order they are logged
var AllFields = []Field{FieldParams, FieldQuery, FieldBody, FieldHeaders, FieldCookies, FieldIP}

// ErrUnknownField is returned for field names outside of AllFields
var ErrUnknownField = errors.New("unknown request field")

func (f Field) bit() (uint8, bool) {
	for i, known := range AllFields {
		if f == known {
			return 1 << i, true
		}
	}
	return 0, false
}

// ParseField returns the Field with the given name
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := f.bit(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Selector chooses which request fields are logged. It is an immutable
// value.
//
// The zero Selector includes all fields.
type Selector struct {
	excluded uint8
}

// DefaultSelector returns the Selector including all fields
func DefaultSelector() Selector {
	return Selector{}
}

// Includes reports whether the field is logged
func (s Selector) Includes(f Field) bool {
	b, ok := f.bit()
	return ok && s.excluded&b == 0
}

// Exclude returns a copy of the Selector where every field present in m is
// excluded if its value is true and included if it is false. Fields absent
// from m keep their setting. Values outside of AllFields are ignored.
func (s Selector) Exclude(m map[Field]bool) Selector {
	for f, exclude := range m {
		b, ok := f.bit()
		if !ok {
			continue
		}
		if exclude {
			s.excluded |= b
		} else {
			s.excluded &^= b
		}
	}
	return s
}

// ExcludeNames is Exclude keyed by field name.
//
// Fails with ErrUnknownField if any name is not a known field, in which case
// the Selector is returned unchanged.
func (s Selector) ExcludeNames(m map[string]bool) (Selector, error) {
	fields := make(map[Field]bool, len(m))
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names) // report the same unknown name every time
	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return s, err
		}
		fields[f] = m[name]
	}
	return s.Exclude(fields), nil
}

// Excluded returns the excluded fields in AllFields order
func (s Selector) Excluded() []Field {
	var res []Field
	for _, f := range AllFields {
		if !s.Includes(f) {
			res = append(res, f)
		}
	}
	return res
}

// Exclusions returns the state of every field, true meaning excluded. The
// result can be passed back to ExcludeNames.
func (s Selector) Exclusions() map[string]bool {
	res := make(map[string]bool, len(AllFields))
	for _, f := range AllFields {
		res[string(f)] = !s.Includes(f)
	}
	return res
}
