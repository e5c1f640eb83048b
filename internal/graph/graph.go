package graph

import (
	"sort"
	"strings"
)

// Node is one file in the import graph.
type Node struct {
	File     string
	OutEdges []string // files this file imports
}

// Graph is a directed file-level import graph.
type Graph struct {
	Nodes map[string]*Node
}

// NewGraph creates a new empty graph
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddFile registers file as a node. Adding a file twice is a no-op.
func (g *Graph) AddFile(file string) *Node {
	if node, ok := g.Nodes[file]; ok {
		return node
	}
	node := &Node{File: file}
	g.Nodes[file] = node
	return node
}

// AddEdge records that from imports to. Self-imports are ignored.
func (g *Graph) AddEdge(from, to string) {
	if from == to {
		return
	}
	src := g.AddFile(from)
	g.AddFile(to)
	if containsString(src.OutEdges, to) {
		return
	}
	src.OutEdges = append(src.OutEdges, to)
}

// Files returns every node name in sorted order.
func (g *Graph) Files() []string {
	files := make([]string, 0, len(g.Nodes))
	for file := range g.Nodes {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Cycles returns each distinct import cycle once, as the ordered list of
// files that form it. Every cycle starts at its lexically smallest file and
// the list of cycles is sorted.
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.Nodes))
	stack := make([]string, 0)
	seen := make(map[string]bool)
	cycles := make([][]string, 0)

	var visit func(file string)
	visit = func(file string) {
		state[file] = active
		stack = append(stack, file)

		node := g.Nodes[file]
		out := append([]string{}, node.OutEdges...)
		sort.Strings(out)
		for _, next := range out {
			switch state[next] {
			case unvisited:
				visit(next)
			case active:
				start := indexOf(stack, next)
				cycle := canonical(stack[start:])
				key := strings.Join(cycle, "\x00")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[file] = done
	}

	for _, file := range g.Files() {
		if state[file] == unvisited {
			visit(file)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], "\x00") < strings.Join(cycles[j], "\x00")
	})
	return cycles
}

// canonical rotates cycle so it begins at its smallest element.
func canonical(cycle []string) []string {
	lo := 0
	for i := range cycle {
		if cycle[i] < cycle[lo] {
			lo = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[lo:]...)
	out = append(out, cycle[:lo]...)
	return out
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}

func containsString(items []string, target string) bool {
	return indexOf(items, target) >= 0
}
