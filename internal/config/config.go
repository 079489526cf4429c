// Package config turns command line flags and nodes files into the inputs
// of a hash ring.
package config

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	hashring "github.com/odvarkadaniel/static-hashring"
)

// DefaultVnodeCount is the number of virtual nodes a node gets when neither
// the node nor the nodes file says otherwise.
const DefaultVnodeCount = 1000

var (
	ErrNoNodes         = errors.New("no nodes given")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnknownHasher   = errors.New("unknown hasher")
)

// NodeSpec describes one real node.
type NodeSpec struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	// Quantity overrides the default number of virtual nodes when set.
	Quantity *int `yaml:"quantity"`
}

// NodesFile is the YAML document accepted by --nodes-file:
//
//	vnode_count: 1000
//	nodes:
//	  - key: cache-a
//	    value: 10.0.0.1:11211
//	    quantity: 500
type NodesFile struct {
	VnodeCount int        `yaml:"vnode_count"`
	Nodes      []NodeSpec `yaml:"nodes"`
}

// ParseNodes parses a comma-separated list of nodes in the format:
// "a,b=500,c" where the optional number is the quantity of that node.
func ParseNodes(nodesStr string) ([]NodeSpec, error) {
	if nodesStr == "" {
		return []NodeSpec{}, nil
	}

	parts := strings.Split(nodesStr, ",")
	specs := make([]NodeSpec, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, quantityStr, hasQuantity := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid node format: %s (empty key)", part)
		}

		spec := NodeSpec{Key: key}
		if hasQuantity {
			quantity, err := parseQuantity(strings.TrimSpace(quantityStr))
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", key, err)
			}
			spec.Quantity = &quantity
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

func parseQuantity(s string) (int, error) {
	quantity, err := strconv.Atoi(s)
	if err != nil || quantity < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return quantity, nil
}

// LoadNodesFile reads and validates a YAML nodes file.
func LoadNodesFile(path string) (*NodesFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving nodes file path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading nodes file: %w", err)
	}

	var file NodesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing nodes file %s: %w", path, err)
	}

	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("validating nodes file %s: %w", path, err)
	}

	return &file, nil
}

func (f *NodesFile) validate() error {
	if len(f.Nodes) == 0 {
		return ErrNoNodes
	}

	if f.VnodeCount < 0 {
		return fmt.Errorf("%w: vnode_count %d", ErrInvalidQuantity, f.VnodeCount)
	}
	if f.VnodeCount == 0 {
		f.VnodeCount = DefaultVnodeCount
	}

	for i, n := range f.Nodes {
		if n.Key == "" {
			return fmt.Errorf("node #%d: empty key", i)
		}
		if n.Quantity != nil && *n.Quantity < 0 {
			return fmt.Errorf("node %s: %w: %d", n.Key, ErrInvalidQuantity, *n.Quantity)
		}
	}

	return nil
}

// Nodes converts specs into ring nodes. Specs without a quantity get
// vnodeCount virtual nodes.
func Nodes(specs []NodeSpec, vnodeCount int) ([]hashring.Node[string, string], error) {
	if len(specs) == 0 {
		return nil, ErrNoNodes
	}

	nodes := make([]hashring.Node[string, string], 0, len(specs))
	for _, s := range specs {
		quantity := vnodeCount
		if s.Quantity != nil {
			quantity = *s.Quantity
		}

		nodes = append(nodes, hashring.NewNode[string](s.Key).
			WithValue(s.Value).
			WithQuantity(quantity))
	}

	return nodes, nil
}

// NewHasher returns the hasher called name: "sip13" (the default when name
// is empty) or "xxhash". With randomSeed set the hasher gets a random key
// and placements differ between runs.
func NewHasher(name string, randomSeed bool) (hashring.Hasher, error) {
	switch name {
	case "", "sip13":
		if randomSeed {
			h, err := hashring.NewRandomSipHash()
			if err != nil {
				return nil, err
			}
			return h, nil
		}
		return hashring.SipHash{}, nil
	case "xxhash":
		if randomSeed {
			return hashring.XXHash{Seed: rand.Uint64()}, nil
		}
		return hashring.XXHash{}, nil
	}

	return nil, fmt.Errorf("%w: %s (expected sip13 or xxhash)", ErrUnknownHasher, name)
}
