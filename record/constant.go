package record

import "fmt"

// Constant is a typed, possibly-null runtime value: an I32, a VARCHAR, or
// NULL. It is the common currency scans, predicates and indexes exchange,
// so that a field's stored type never has to be re-derived from context.
type Constant struct {
	null bool
	str  bool
	ival int32
	sval string
}

// NullConstant is the NULL value.
func NullConstant() Constant {
	return Constant{null: true}
}

// IntConstant wraps an I32 value.
func IntConstant(v int32) Constant {
	return Constant{ival: v}
}

// StringConstant wraps a VARCHAR value.
func StringConstant(v string) Constant {
	return Constant{str: true, sval: v}
}

// IsNull reports whether this constant is NULL.
func (c Constant) IsNull() bool {
	return c.null
}

// IsString reports whether this constant holds a string (meaningless for a
// NULL constant, which carries no type of its own).
func (c Constant) IsString() bool {
	return c.str
}

// AsInt returns the wrapped I32 value; the caller must know it is not a
// string or NULL.
func (c Constant) AsInt() int32 {
	return c.ival
}

// AsString returns the wrapped VARCHAR value; the caller must know it is not
// an I32 or NULL.
func (c Constant) AsString() string {
	return c.sval
}

// Equals reports whether c and other represent the same value. Two NULLs are
// not equal to each other, matching SQL's null semantics rather than Go's
// equality.
func (c Constant) Equals(other Constant) bool {
	if c.null || other.null {
		return false
	}
	if c.str != other.str {
		return false
	}
	if c.str {
		return c.sval == other.sval
	}
	return c.ival == other.ival
}

// CompareTo orders c against other for sorting: NULL sorts before any value
// and equal to every other NULL.
func (c Constant) CompareTo(other Constant) int {
	if c.null && other.null {
		return 0
	}
	if c.null {
		return -1
	}
	if other.null {
		return 1
	}
	if c.str {
		switch {
		case c.sval < other.sval:
			return -1
		case c.sval > other.sval:
			return 1
		default:
			return 0
		}
	}
	switch {
	case c.ival < other.ival:
		return -1
	case c.ival > other.ival:
		return 1
	default:
		return 0
	}
}

func (c Constant) String() string {
	if c.null {
		return "NULL"
	}
	if c.str {
		return fmt.Sprintf("%q", c.sval)
	}
	return fmt.Sprintf("%d", c.ival)
}
