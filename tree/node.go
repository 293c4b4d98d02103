package tree

import (
	"sort"
)

/*
Node is a node of the tree: a *Leaf, a *NumericSplit or a
*CategoricalSplit. Every node carries the prediction for the training rows
that reached it, so internal nodes can answer when a sample cannot be
routed any further.
*/
type Node interface {
	// Label returns the majority label of the rows that reached the node
	Label() string
	// Outcome returns the prediction made at the node
	Outcome() *Prediction
	node()
}

/*
Leaf is a terminal node
*/
type Leaf struct {
	Prediction *Prediction
}

/*
NumericSplit is a node that sends samples whose value for Feature is lower
than or equal to Threshold to Left and the rest to Right.
*/
type NumericSplit struct {
	Feature    string
	Threshold  float64
	Prediction *Prediction
	Left       Node
	Right      Node
}

/*
CategoricalSplit is a node with a child for every value of Feature seen
while growing it.
*/
type CategoricalSplit struct {
	Feature    string
	Prediction *Prediction
	Children   map[string]Node
}

func (l *Leaf) Label() string {
	return l.Prediction.Label()
}

func (l *Leaf) Outcome() *Prediction {
	return l.Prediction
}

func (l *Leaf) node() {}

func (ns *NumericSplit) Label() string {
	return ns.Prediction.Label()
}

func (ns *NumericSplit) Outcome() *Prediction {
	return ns.Prediction
}

func (ns *NumericSplit) node() {}

func (cs *CategoricalSplit) Label() string {
	return cs.Prediction.Label()
}

func (cs *CategoricalSplit) Outcome() *Prediction {
	return cs.Prediction
}

func (cs *CategoricalSplit) node() {}

/*
Values returns the values for which the split has a child, sorted.
*/
func (cs *CategoricalSplit) Values() []string {
	values := make([]string, 0, len(cs.Children))
	for v := range cs.Children {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

/*
Children returns the children of the given node: none for leaves, left
then right for numeric splits (skipping absent ones) and one per value in
sorted value order for categorical splits.
*/
func Children(n Node) []Node {
	switch n := n.(type) {
	case *NumericSplit:
		var children []Node
		if n.Left != nil {
			children = append(children, n.Left)
		}
		if n.Right != nil {
			children = append(children, n.Right)
		}
		return children
	case *CategoricalSplit:
		children := make([]Node, 0, len(n.Children))
		for _, v := range n.Values() {
			children = append(children, n.Children[v])
		}
		return children
	}
	return nil
}
