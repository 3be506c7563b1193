package typesystem

import (
	"hash/fnv"
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// Env is an immutable typing environment mapping variable names to types.
//
// It is a persistent hash array mapped trie: Extend returns a new Env that
// shares structure with the receiver, and the receiver is never modified.
// A nil *Env behaves as the empty environment.
type Env struct {
	root  *hamtNode
	count int
}

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
)

// hamtNode is a node in the trie
type hamtNode struct {
	bitmap uint32        // which indices are populated
	nodes  []interface{} // hamtEntry or *hamtNode
}

type hamtEntry struct {
	hash uint32
	name string
	typ  Type
}

// EmptyEnv returns the environment with no bindings.
func EmptyEnv() *Env {
	return &Env{}
}

// EnvFrom builds an environment from params, later entries shadowing earlier ones.
func EnvFrom(params []Param) *Env {
	return EmptyEnv().ExtendParams(params)
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return e.count
}

// Lookup returns the type bound to name.
func (e *Env) Lookup(name string) (Type, bool) {
	if e == nil || e.root == nil {
		return nil, false
	}
	return e.root.get(hashName(name), name, 0)
}

// Extend returns a new environment with name bound to typ,
// hiding any existing binding of name.
func (e *Env) Extend(name string, typ Type) *Env {
	hash := hashName(name)

	var root *hamtNode
	count := 0
	if e != nil {
		root = e.root
		count = e.count
	}
	if root == nil {
		root = &hamtNode{}
	}

	newRoot, added := root.put(hash, name, typ, 0)
	if added {
		count++
	}
	return &Env{root: newRoot, count: count}
}

// ExtendParams binds every parameter in order.
func (e *Env) ExtendParams(params []Param) *Env {
	result := e
	if result == nil {
		result = EmptyEnv()
	}
	for _, p := range params {
		result = result.Extend(p.Name, p.Type)
	}
	return result
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	if e == nil || e.root == nil {
		return nil
	}
	names := make([]string, 0, e.count)
	e.root.collectNames(&names)
	sort.Strings(names)
	return names
}

// Fingerprint renders the environment canonically: sorted bindings written
// as quoted name, '=', canonical type, separated by ';'. Names and parameter
// names are quoted, so distinct environments never share a fingerprint.
func (e *Env) Fingerprint() string {
	var sb strings.Builder
	for i, name := range e.Names() {
		if i > 0 {
			sb.WriteByte(';')
		}
		typ, _ := e.Lookup(name)
		sb.WriteString(strconv.Quote(name))
		sb.WriteByte('=')
		writeCanonical(&sb, typ)
	}
	return sb.String()
}

// writeCanonical writes B, N or F(params)ret for t.
func writeCanonical(sb *strings.Builder, t Type) {
	switch tt := t.(type) {
	case TBoolean:
		sb.WriteByte('B')
	case TNumber:
		sb.WriteByte('N')
	case TFunc:
		sb.WriteString("F(")
		for i, p := range tt.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(p.Name))
			sb.WriteByte(':')
			writeCanonical(sb, p.Type)
		}
		sb.WriteByte(')')
		writeCanonical(sb, tt.ReturnType)
	default:
		sb.WriteByte('?')
	}
}

// --- hamtNode methods ---

func (n *hamtNode) get(hash uint32, name string, shift uint) (Type, bool) {
	if shift >= 32 {
		// Collision bucket search
		for _, node := range n.nodes {
			if entry, ok := node.(hamtEntry); ok && entry.name == name {
				return entry.typ, true
			}
		}
		return nil, false
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx

	if n.bitmap&bit == 0 {
		return nil, false
	}

	pos := bits.OnesCount32(n.bitmap & (bit - 1))

	switch v := n.nodes[pos].(type) {
	case hamtEntry:
		if v.hash == hash && v.name == name {
			return v.typ, true
		}
		return nil, false
	case *hamtNode:
		return v.get(hash, name, shift+hamtBits)
	}

	return nil, false
}

func (n *hamtNode) put(hash uint32, name string, typ Type, shift uint) (*hamtNode, bool) {
	newNode := &hamtNode{
		bitmap: n.bitmap,
		nodes:  make([]interface{}, len(n.nodes)),
	}
	copy(newNode.nodes, n.nodes)

	// Exhausted the hash bits: this node is a collision bucket.
	if shift >= 32 {
		for i, node := range newNode.nodes {
			if entry, ok := node.(hamtEntry); ok && entry.name == name {
				newNode.nodes[i] = hamtEntry{hash: hash, name: name, typ: typ}
				return newNode, false
			}
		}
		newNode.nodes = append(newNode.nodes, hamtEntry{hash: hash, name: name, typ: typ})
		return newNode, true
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		pos := bits.OnesCount32(newNode.bitmap & (bit - 1))

		newNode.nodes = append(newNode.nodes, nil)
		copy(newNode.nodes[pos+1:], newNode.nodes[pos:])
		newNode.nodes[pos] = hamtEntry{hash: hash, name: name, typ: typ}

		return newNode, true
	}

	pos := bits.OnesCount32(n.bitmap & (bit - 1))

	switch v := newNode.nodes[pos].(type) {
	case hamtEntry:
		if v.hash == hash && v.name == name {
			// Shadow the existing binding
			newNode.nodes[pos] = hamtEntry{hash: hash, name: name, typ: typ}
			return newNode, false
		}

		// Push both entries down one level
		child := &hamtNode{}
		child, _ = child.put(v.hash, v.name, v.typ, shift+hamtBits)
		child, _ = child.put(hash, name, typ, shift+hamtBits)

		newNode.nodes[pos] = child
		return newNode, true

	case *hamtNode:
		newChild, added := v.put(hash, name, typ, shift+hamtBits)
		newNode.nodes[pos] = newChild
		return newNode, added
	}

	return newNode, false
}

func (n *hamtNode) collectNames(names *[]string) {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry:
			*names = append(*names, v.name)
		case *hamtNode:
			v.collectNames(names)
		}
	}
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

