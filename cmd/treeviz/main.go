// Command treeviz runs scripts of inserts, erases and finds against one of the
// balanced trees and prints the shape of the tree after every command.
package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tchicherin/tree-visualizer/Trees"
	"github.com/tchicherin/tree-visualizer/Trees/BTree"
	"github.com/timtadh/getopt"
)

const shortUsage = `treeviz [options] [<script>...]`

var usage = `
Run insert/erase/find scripts against a tree and print its shape. Scripts are
read from the given files (.gz ones are decompressed) or stdin, one command a
line:

    insert <k>    erase <k>    find <k>    show    # comment

Option Flags
    -h,--help                         Show this message
    -t,--tree=<kind>                  One of ` + strings.Join(kindNames(), ", ") + ` (default avl)
    -f,--factor=<t>                   B-tree minimum degree (default ` + strconv.Itoa(BTree.DefaultFactor) + `)
    -s,--seed=<n>                     Seed of the treap priorities (default random)
    -j,--json                         Print one JSON object a command
    -v,--verbose                      Log every rotation, split and merge to stderr
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(err.ExitCode)
	}
}

func run(argv []string, stdin io.Reader, out io.Writer) *Error {
	args, optargs, err := getopt.GetOpt(
		argv,
		"ht:f:s:jv",
		[]string{"help", "tree=", "factor=", "seed=", "json", "verbose"},
	)
	if err != nil {
		return Usage(2, "could not process args: %v", err)
	}
	c := &config{kind: "avl", factor: BTree.DefaultFactor}
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			return Usage(0)
		case "-t", "--tree":
			c.kind = strings.ToLower(oa.Arg())
		case "-f", "--factor":
			f, err := strconv.Atoi(oa.Arg())
			if err != nil {
				return Usage(2, "for flag %v expected an int got %v", oa.Opt(), oa.Arg())
			}
			c.factor = f
		case "-s", "--seed":
			seed, err := strconv.ParseInt(oa.Arg(), 10, 64)
			if err != nil {
				return Usage(2, "for flag %v expected an int got %v", oa.Opt(), oa.Arg())
			}
			c.seed, c.seeded = seed, true
		case "-j", "--json":
			c.json = true
		case "-v", "--verbose":
			Trees.Log.SetLevel(logrus.DebugLevel)
		}
	}
	u, terr := newTree(c)
	if terr != nil {
		return Usage(2, "%v", terr)
	}
	log := Trees.Log.WithField("tree", c.kind)
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		ops, err := readScript(path, stdin)
		if err != nil {
			return Err(1, err)
		}
		log.WithFields(logrus.Fields{"script": path, "commands": len(ops)}).Info("running script")
		if err := Exec(u, ops, out, c.json); err != nil {
			return Err(1, err)
		}
	}
	return nil
}

// readScript parses the script at path, "-" being stdin.
func readScript(path string, stdin io.Reader) ([]Op, error) {
	if path == "-" {
		return Parse("stdin", stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		g, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer g.Close()
		r = g
	}
	return Parse(path, r)
}
