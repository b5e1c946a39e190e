package flow

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a node set, usable as a diagram file
// format for hosts that persist canvases.
type Document struct {
	Nodes []Node `yaml:"nodes"`
}

// LoadDocument decodes a YAML document from r.
func LoadDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	seen := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		id := d.Nodes[i].ID
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate node id %q", id)
		}
		seen[id] = true
	}
	return &d, nil
}

// Save encodes the document as YAML to w.
func (d *Document) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return enc.Close()
}

// ApplyTo replaces the store's node set with the document's nodes.
func (d *Document) ApplyTo(s *Store) {
	s.SetNodes(d.Nodes)
}

// Snapshot captures the store's current node set as a document, in render
// order.
func Snapshot(s *Store) *Document {
	ids := s.NodeIDs()
	d := &Document{Nodes: make([]Node, 0, len(ids))}
	for _, id := range ids {
		if n, ok := s.Node(id); ok {
			d.Nodes = append(d.Nodes, *n)
		}
	}
	return d
}
