// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package trie

import (
	"fmt"
	"io"
	"strings"
)

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// dumpString is just a wrapper for dump.
func (t *Trie[V]) dumpString() string {
	w := new(strings.Builder)
	t.dump(w)

	return w.String()
}

// dump the trie structure and all the nodes to w.
func (t *Trie[V]) dump(w io.Writer) {
	if t == nil {
		return
	}

	fmt.Fprintf(w, "### %s: entries(%d), nodes(%d)\n", t.family, t.Len(), t.root.nodeCountRec())
	t.root.dumpRec(w, nil)
}

// dumpRec, rec-descent the trie.
func (n *node[V]) dumpRec(w io.Writer, path []bool) {
	if n == nil {
		return
	}

	indent := strings.Repeat(".", len(path))
	if n.leaf {
		fmt.Fprintf(w, "%s[LEAF] path: [%s] / %d (%v)\n", indent, bitString(path), len(path), n.val)
		return
	}
	fmt.Fprintf(w, "%s[NODE] path: [%s] / %d\n", indent, bitString(path), len(path))

	for i, c := range n.child {
		c.dumpRec(w, append(path, i == 1))
	}
}

func (n *node[V]) nodeCountRec() int {
	if n == nil {
		return 0
	}
	return 1 + n.child[0].nodeCountRec() + n.child[1].nodeCountRec()
}

func bitString(path []bool) string {
	b := make([]byte, len(path))
	for i, bit := range path {
		b[i] = '0'
		if bit {
			b[i] = '1'
		}
	}
	return string(b)
}
