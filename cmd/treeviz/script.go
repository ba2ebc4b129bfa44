package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tchicherin/tree-visualizer/Trees"
)

// Op is one line of a script.
type Op struct {
	Line int
	Verb string
	Key  int
}

var arity = map[string]int{
	"insert": 1,
	"erase":  1,
	"find":   1,
	"show":   0,
}

// Parse reads a script: one command per line, blank lines and lines starting
// with # are skipped. Every malformed line is reported with its number.
func Parse(name string, r io.Reader) ([]Op, error) {
	var ops []Op
	var bad []string
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		verb := strings.ToLower(fields[0])
		n, has := arity[verb]
		if !has {
			bad = append(bad, fmt.Sprintf("%s:%d: unknown command %q", name, line, fields[0]))
			continue
		}
		if len(fields)-1 != n {
			bad = append(bad, fmt.Sprintf("%s:%d: %s takes %d argument(s), got %d", name, line, verb, n, len(fields)-1))
			continue
		}
		op := Op{Line: line, Verb: verb}
		if n == 1 {
			k, err := strconv.Atoi(fields[1])
			if err != nil {
				bad = append(bad, fmt.Sprintf("%s:%d: key %q is not an integer", name, line, fields[1]))
				continue
			}
			op.Key = k
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	if len(bad) > 0 {
		return nil, errors.Newf("%d bad line(s)\n%s", len(bad), strings.Join(bad, "\n"))
	}
	return ops, nil
}

// step is what one command printed in JSON mode.
type step struct {
	Line  int          `json:"line"`
	Op    string       `json:"op"`
	Key   *int         `json:"key,omitempty"`
	Found *bool        `json:"found,omitempty"`
	Size  uint         `json:"size"`
	Shape *Trees.Shape `json:"shape"`
}

// Exec runs ops against u and prints the shape after every command.
func Exec(u Trees.Tree[int], ops []Op, out io.Writer, asJSON bool) error {
	enc := json.NewEncoder(out)
	for _, op := range ops {
		st := step{Line: op.Line, Op: op.Verb}
		if op.Verb != "show" {
			k := op.Key
			st.Key = &k
		}
		switch op.Verb {
		case "insert":
			u.Insert(op.Key)
		case "erase":
			u.Erase(op.Key)
		case "find":
			found := u.Find(op.Key)
			st.Found = &found
		}
		st.Size = u.Size()
		st.Shape = u.Export()
		if err := u.CheckInvariant(); err != nil {
			return errors.Wrapf(err, "line %d: %s", op.Line, op.Verb)
		}
		if asJSON {
			if err := enc.Encode(&st); err != nil {
				return errors.Wrap(err, "writing shape")
			}
			continue
		}
		head := "> " + op.Verb
		if st.Key != nil {
			head += " " + strconv.Itoa(*st.Key)
		}
		if st.Found != nil {
			head += ": " + strconv.FormatBool(*st.Found)
		}
		if _, err := fmt.Fprintf(out, "%s (size %d)\n%s", head, st.Size, st.Shape); err != nil {
			return errors.Wrap(err, "writing shape")
		}
	}
	return nil
}
