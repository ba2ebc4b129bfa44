package Trees

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/emirpasic/gods/utils"
	"github.com/tchicherin/tree-visualizer/Queues"
)

// Tint is a rendering hint for a node. Only RBTree emits Red and Black.
type Tint uint8

const (
	Plain Tint = iota
	Red
	Black
)

func (c Tint) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "plain"
	}
}

func (c Tint) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Shape is a read-only snapshot of one node and its subtrees.
// Binary trees export exactly one key and two child slots, either of which may
// be nil. B-tree nodes export every key and len(Keys)+1 slots, all nil for a leaf.
type Shape struct {
	Keys     []string `json:"keys"`
	Selected bool     `json:"selected,omitempty"`
	Tint     Tint     `json:"tint,omitempty"`
	Children []*Shape `json:"children,omitempty"`
}

// Label is the string form of a key in a Shape.
func Label(v any) string {
	return utils.ToString(v)
}

// Leaf reports whether every child slot of u is empty.
func (u *Shape) Leaf() bool {
	for _, c := range u.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// Flatten returns the keys of the subtree in order. Children and keys
// interleave as c0 k0 c1 k1 ... which is in-order for both binary and
// multiway nodes.
func (u *Shape) Flatten() []string {
	var out []string
	var walk func(*Shape)
	walk = func(s *Shape) {
		if s == nil {
			return
		}
		for i, k := range s.Keys {
			if i < len(s.Children) {
				walk(s.Children[i])
			}
			out = append(out, k)
		}
		if len(s.Children) > len(s.Keys) {
			walk(s.Children[len(s.Keys)])
		}
	}
	walk(u)
	return out
}

// Levels returns the nodes of the subtree breadth first, one slice per depth.
// Empty slots are skipped.
func (u *Shape) Levels() [][]*Shape {
	if u == nil {
		return nil
	}
	var out [][]*Shape
	q := Queues.MakeArrayQueue[*Shape](8)
	q.Push(u)
	for !q.Empty() {
		level := make([]*Shape, 0, q.Size())
		for n := q.Size(); n > 0; n-- {
			s, _ := q.Pop()
			level = append(level, s)
			for _, c := range s.Children {
				if c != nil {
					q.Push(c)
				}
			}
		}
		out = append(out, level)
	}
	return out
}

// Sum64 fingerprints the structure of the subtree: keys, tints and which child
// slots are filled. Selected is left out so that marking a node doesn't
// change the fingerprint. A nil Shape has a fingerprint too.
func (u *Shape) Sum64() uint64 {
	d := xxhash.New()
	var buf []byte
	var enc func(*Shape)
	enc = func(s *Shape) {
		if s == nil {
			buf = append(buf, 0)
			return
		}
		buf = append(buf, 1, byte(s.Tint))
		buf = binary.AppendUvarint(buf, uint64(len(s.Keys)))
		for _, k := range s.Keys {
			buf = binary.AppendUvarint(buf, uint64(len(k)))
			buf = append(buf, k...)
		}
		buf = binary.AppendUvarint(buf, uint64(len(s.Children)))
		if len(buf) > 4096 {
			d.Write(buf)
			buf = buf[:0]
		}
		for _, c := range s.Children {
			enc(c)
		}
	}
	enc(u)
	d.Write(buf)
	return d.Sum64()
}

// String renders the subtree one node per line, children indented under their
// parent. Empty slots of a node that has some child print as "-". The selected
// node is suffixed with "*".
func (u *Shape) String() string {
	var sb strings.Builder
	var line func(*Shape, int)
	line = func(s *Shape, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		if s == nil {
			sb.WriteString("-\n")
			return
		}
		sb.WriteByte('[')
		sb.WriteString(strings.Join(s.Keys, " "))
		sb.WriteByte(']')
		if s.Tint != Plain {
			sb.WriteString(" " + s.Tint.String())
		}
		if s.Selected {
			sb.WriteByte('*')
		}
		sb.WriteByte('\n')
		if !s.Leaf() {
			for _, c := range s.Children {
				line(c, depth+1)
			}
		}
	}
	if u == nil {
		return "(empty)\n"
	}
	line(u, 0)
	return sb.String()
}
