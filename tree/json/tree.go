/*
Package json provides the JSON encoding of trees, used to write them to
files and to keep them in stores.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kstoi/arbor/tree"
)

/*
TreeEncodeDecoder is an interface for objects
that allow encoding trees into slices of
bytes and decoding them back to trees.
*/
type TreeEncodeDecoder interface {

	//Encode receives a *tree.Tree
	// and returns a slice of bytes with the tree
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Tree) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Tree decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Tree, error)
}

type treeEncodeDecoder struct{}

const (
	leafType        = "leaf"
	numericType     = "numeric"
	categoricalType = "categorical"
)

type jsonTree struct {
	Label    string    `json:"label"`
	Features []string  `json:"features,omitempty"`
	Root     *jsonNode `json:"root"`
}

type jsonNode struct {
	Type       string               `json:"t"`
	Feature    string               `json:"f,omitempty"`
	Threshold  *float64             `json:"th,omitempty"`
	Prediction *jsonPrediction      `json:"pred"`
	Left       *jsonNode            `json:"l,omitempty"`
	Right      *jsonNode            `json:"r,omitempty"`
	Children   map[string]*jsonNode `json:"c,omitempty"`
}

type jsonPrediction struct {
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts,omitempty"`
}

/*
NewTreeEncodeDecoder returns a TreeEncodeDecoder that encodes trees as
JSON documents.
*/
func NewTreeEncodeDecoder() TreeEncodeDecoder {
	return &treeEncodeDecoder{}
}

func (ted *treeEncodeDecoder) Encode(t *tree.Tree) ([]byte, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("cannot encode an empty tree")
	}
	root, err := encodeNode(t.Root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonTree{Label: t.Label, Features: t.Features, Root: root})
}

func (ted *treeEncodeDecoder) Decode(data []byte) (*tree.Tree, error) {
	jt := &jsonTree{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, err
	}
	if jt.Label == "" {
		return nil, fmt.Errorf("no label defined")
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("no root node available")
	}
	root, err := decodeNode(jt.Root)
	if err != nil {
		return nil, err
	}
	return tree.New(root, jt.Label, jt.Features), nil
}

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
and an io.Writer and serializes the given tree as JSON onto the
io.Writer.
A tree is serialized as a JSON object with the following fields:
* "label": a string with the name of the feature the tree predicts
* "features": an array with the names of the features the tree was
  grown with
* "root": the node at the root of the tree. Every node is an object
  with a type "t" (leaf, numeric or categorical), its prediction "pred"
  (its label and the count of training rows per label) and, for splits,
  the feature "f" it tests. Numeric splits add their threshold "th" and
  their children "l" and "r", categorical splits an object "c" with a
  child per value.
An error is returned if the tree cannot be serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := NewTreeEncodeDecoder().Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

/*
ReadJSONTree takes a context.Context and an io.Reader and returns the tree
unmarshalled from the contents of the io.Reader, expected to be in the
format written by WriteJSONTree.
An error is returned if the JSON cannot be read from the io.Reader or
unmarshalled onto a tree.
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewTreeEncodeDecoder().Decode(data)
}

func encodeNode(n tree.Node) (*jsonNode, error) {
	p := n.Outcome()
	jn := &jsonNode{Prediction: &jsonPrediction{Label: p.Label(), Counts: p.Counts()}}
	var err error
	switch n := n.(type) {
	case *tree.Leaf:
		jn.Type = leafType
	case *tree.NumericSplit:
		jn.Type = numericType
		jn.Feature = n.Feature
		threshold := n.Threshold
		jn.Threshold = &threshold
		if n.Left != nil {
			if jn.Left, err = encodeNode(n.Left); err != nil {
				return nil, err
			}
		}
		if n.Right != nil {
			if jn.Right, err = encodeNode(n.Right); err != nil {
				return nil, err
			}
		}
	case *tree.CategoricalSplit:
		jn.Type = categoricalType
		jn.Feature = n.Feature
		jn.Children = make(map[string]*jsonNode, len(n.Children))
		for v, c := range n.Children {
			if jn.Children[v], err = encodeNode(c); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown node type %T", n)
	}
	return jn, nil
}

func decodeNode(jn *jsonNode) (tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("null node")
	}
	if jn.Prediction == nil {
		return nil, fmt.Errorf("%s node without prediction", jn.Type)
	}
	p := tree.NewPrediction(jn.Prediction.Label, jn.Prediction.Counts)
	switch jn.Type {
	case leafType:
		return &tree.Leaf{Prediction: p}, nil
	case numericType:
		if jn.Feature == "" || jn.Threshold == nil {
			return nil, fmt.Errorf("numeric node without feature or threshold")
		}
		n := &tree.NumericSplit{Feature: jn.Feature, Threshold: *jn.Threshold, Prediction: p}
		var err error
		if jn.Left != nil {
			if n.Left, err = decodeNode(jn.Left); err != nil {
				return nil, err
			}
		}
		if jn.Right != nil {
			if n.Right, err = decodeNode(jn.Right); err != nil {
				return nil, err
			}
		}
		return n, nil
	case categoricalType:
		if jn.Feature == "" {
			return nil, fmt.Errorf("categorical node without feature")
		}
		n := &tree.CategoricalSplit{Feature: jn.Feature, Prediction: p, Children: make(map[string]tree.Node, len(jn.Children))}
		for v, jc := range jn.Children {
			c, err := decodeNode(jc)
			if err != nil {
				return nil, fmt.Errorf("decoding child for %s %s: %v", jn.Feature, v, err)
			}
			n.Children[v] = c
		}
		return n, nil
	}
	return nil, fmt.Errorf("unknown node type %q", jn.Type)
}
