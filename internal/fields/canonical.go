package fields

import "go.uber.org/zap"

// Canonical holds values by semantic field. It never contains FieldUnknown
// or FieldIgnore keys.
type Canonical map[Field][]string

// Has reports whether f has at least one value.
func (c Canonical) Has(f Field) bool {
	return len(c[f]) > 0
}

// First returns the first value of f, or "".
func (c Canonical) First(f Field) string {
	if vs := c[f]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Fields returns the present fields in canonical order.
func (c Canonical) Fields() []Field {
	var out []Field
	for _, f := range Ordered {
		if c.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// ToCanonical remaps a FieldMap through the path table. Unknown paths are
// logged and dropped; ignored paths are dropped silently.
func ToCanonical(fm FieldMap, log *zap.Logger) Canonical {
	if log == nil {
		log = zap.NewNop()
	}
	out := make(Canonical)
	for _, path := range fm.Paths() {
		m := Lookup(path)
		switch m.Field {
		case FieldUnknown:
			log.Warn("unknown structural path",
				zap.String("path", m.Path),
				zap.Strings("values", fm.Values(path)))
		case FieldIgnore:
		default:
			out[m.Field] = append(out[m.Field], fm.Values(path)...)
		}
	}
	return out
}
