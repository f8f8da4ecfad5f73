// Package factoriodat decodes and re-encodes the binary PropertyTree
// container format Factorio uses for mod-settings.dat files and save
// headers. The codec works over in-memory buffers; reading and writing
// files is left to the caller.
package factoriodat

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PropertyTreeType is the one-byte discriminator preceding every node.
type PropertyTreeType byte

const (
	TypeNone PropertyTreeType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeList
	TypeDictionary
)

func (t PropertyTreeType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeDictionary:
		return "dictionary"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// MaxTreeDepth bounds recursion while decoding. Real settings files nest a
// handful of levels; anything deeper is treated as malformed rather than
// risking unbounded stack growth on adversarial input.
const MaxTreeDepth = 128

// DictEntry is one key/value pair of a dictionary node.
type DictEntry struct {
	Key   string
	Value PropertyTree
}

// PropertyTree is one node of the recursive tagged-value format: none, bool,
// number, string, list, or dictionary. Dictionary nodes keep their pairs as
// an ordered sequence, never a map; re-encoding a tree this package decoded
// must reproduce the original byte order, and map iteration would destroy it.
// The zero value is the none node.
type PropertyTree struct {
	typ PropertyTreeType
	b   bool
	num float64
	str string
	lst []PropertyTree
	dct []DictEntry
}

func NewNone() PropertyTree               { return PropertyTree{} }
func NewBool(v bool) PropertyTree         { return PropertyTree{typ: TypeBool, b: v} }
func NewNumber(v float64) PropertyTree    { return PropertyTree{typ: TypeNumber, num: v} }
func NewString(v string) PropertyTree     { return PropertyTree{typ: TypeString, str: v} }
func NewList(items ...PropertyTree) PropertyTree {
	return PropertyTree{typ: TypeList, lst: items}
}

// NewDictionary builds a dictionary node from entries, preserving their order.
// A duplicate key is rejected: with duplicates present the node could not
// round-trip deterministically.
func NewDictionary(entries ...DictEntry) (PropertyTree, error) {
	pt := PropertyTree{typ: TypeDictionary, dct: make([]DictEntry, 0, len(entries))}
	for _, e := range entries {
		if err := pt.appendEntry(e.Key, e.Value); err != nil {
			return PropertyTree{}, err
		}
	}
	return pt, nil
}

func (pt *PropertyTree) appendEntry(key string, value PropertyTree) error {
	for _, e := range pt.dct {
		if e.Key == key {
			return syntaxErr("duplicate dictionary key %q", key)
		}
	}
	pt.dct = append(pt.dct, DictEntry{Key: key, Value: value})
	return nil
}

// Type returns the node's discriminator.
func (pt PropertyTree) Type() PropertyTreeType { return pt.typ }

// AsBool returns the bool payload; ok is false for non-bool nodes.
func (pt PropertyTree) AsBool() (v, ok bool) { return pt.b, pt.typ == TypeBool }

// AsNumber returns the double payload; ok is false for non-number nodes.
func (pt PropertyTree) AsNumber() (float64, bool) { return pt.num, pt.typ == TypeNumber }

// AsString returns the string payload; ok is false for non-string nodes.
func (pt PropertyTree) AsString() (string, bool) { return pt.str, pt.typ == TypeString }

// Items returns the elements of a list node, nil otherwise.
func (pt PropertyTree) Items() []PropertyTree { return pt.lst }

// Entries returns the ordered pairs of a dictionary node, nil otherwise.
func (pt PropertyTree) Entries() []DictEntry { return pt.dct }

// Get looks up key in a dictionary node.
func (pt PropertyTree) Get(key string) (PropertyTree, bool) {
	for _, e := range pt.dct {
		if e.Key == key {
			return e.Value, true
		}
	}
	return PropertyTree{}, false
}

// NextPropertyTree decodes one node and everything below it.
func (c *Cursor) NextPropertyTree() (PropertyTree, error) {
	return c.nextPropertyTree(0)
}

func (c *Cursor) nextPropertyTree(depth int) (PropertyTree, error) {
	if depth > MaxTreeDepth {
		return PropertyTree{}, syntaxErr("property tree deeper than %d levels", MaxTreeDepth)
	}

	t, err := c.NextByte()
	if err != nil {
		return PropertyTree{}, err
	}
	if t > byte(TypeDictionary) {
		return PropertyTree{}, fmt.Errorf("%w: %d", ErrOutOfRange, t)
	}

	// One reserved bool follows the discriminator. Only meaningful inside
	// the game engine; discarded on read, written as false.
	if _, err := c.NextBool(); err != nil {
		return PropertyTree{}, err
	}

	switch PropertyTreeType(t) {
	case TypeNone:
		return NewNone(), nil

	case TypeBool:
		v, err := c.NextBool()
		if err != nil {
			return PropertyTree{}, err
		}
		return NewBool(v), nil

	case TypeNumber:
		v, err := c.NextDouble()
		if err != nil {
			return PropertyTree{}, err
		}
		return NewNumber(v), nil

	case TypeString:
		v, err := c.NextString()
		if err != nil {
			return PropertyTree{}, err
		}
		return NewString(v), nil

	case TypeList:
		n, err := c.NextUint32()
		if err != nil {
			return PropertyTree{}, err
		}
		items := make([]PropertyTree, 0, int(min(n, 1024)))
		for i := uint32(0); i < n; i++ {
			// each element carries an unused string label
			if _, err := c.NextString(); err != nil {
				return PropertyTree{}, err
			}
			item, err := c.nextPropertyTree(depth + 1)
			if err != nil {
				return PropertyTree{}, err
			}
			items = append(items, item)
		}
		return NewList(items...), nil

	default: // TypeDictionary
		n, err := c.NextUint32()
		if err != nil {
			return PropertyTree{}, err
		}
		pt := PropertyTree{typ: TypeDictionary, dct: make([]DictEntry, 0, int(min(n, 1024)))}
		for i := uint32(0); i < n; i++ {
			key, err := c.NextString()
			if err != nil {
				return PropertyTree{}, err
			}
			value, err := c.nextPropertyTree(depth + 1)
			if err != nil {
				return PropertyTree{}, err
			}
			if err := pt.appendEntry(key, value); err != nil {
				return PropertyTree{}, err
			}
		}
		return pt, nil
	}
}

// WritePropertyTree encodes one node and everything below it, the exact
// mirror of NextPropertyTree. The reserved bool is always written false and
// list element labels always empty.
func (w *Writer) WritePropertyTree(pt PropertyTree) {
	w.WriteUint8(byte(pt.typ))
	w.WriteBool(false)

	switch pt.typ {
	case TypeNone:
	case TypeBool:
		w.WriteBool(pt.b)
	case TypeNumber:
		w.WriteDouble(pt.num)
	case TypeString:
		w.WriteString(pt.str)
	case TypeList:
		w.WriteUint32(uint32(len(pt.lst)))
		for _, item := range pt.lst {
			w.WriteString("")
			w.WritePropertyTree(item)
		}
	case TypeDictionary:
		w.WriteUint32(uint32(len(pt.dct)))
		for _, e := range pt.dct {
			w.WriteString(e.Key)
			w.WritePropertyTree(e.Value)
		}
	}
}

// MarshalJSON renders the node naturally: null, bool, number, string, array,
// or object. Dictionary keys keep their decoded order.
func (pt PropertyTree) MarshalJSON() ([]byte, error) {
	switch pt.typ {
	case TypeNone:
		return []byte("null"), nil
	case TypeBool:
		return json.Marshal(pt.b)
	case TypeNumber:
		return json.Marshal(pt.num)
	case TypeString:
		return json.Marshal(pt.str)
	case TypeList:
		if pt.lst == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(pt.lst)
	case TypeDictionary:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, e := range pt.dct {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(e.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, byte(pt.typ))
	}
}
