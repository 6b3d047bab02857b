package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key prefixes by entry type. They double as the key types reported to
// observability hooks.
const (
	KeyTypePartition = "partition"
	KeyTypeRender    = "render"
)

// PartitionKeyOpts are the parameters that determine a partition result.
type PartitionKeyOpts struct {
	Engine  string  `json:"engine"`
	Config  string  `json:"config"` // hash of the engine configuration text
	Seed    int32   `json:"seed"`
	SeedSet bool    `json:"seed_set"`
	K       int     `json:"k"`
	Epsilon float64 `json:"epsilon"`
}

// RenderKeyOpts are the parameters that determine a rendered artifact.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout"`
}

// Keyer generates cache keys.
type Keyer interface {
	// PartitionKey returns the key of a partition result for the hypergraph
	// with content hash graphHash.
	PartitionKey(graphHash string, opts PartitionKeyOpts) string

	// RenderKey returns the key of an artifact rendered from the partition
	// stored under partitionKey.
	RenderKey(partitionKey string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PartitionKey implements [Keyer].
func (DefaultKeyer) PartitionKey(graphHash string, opts PartitionKeyOpts) string {
	return hashKey(KeyTypePartition, graphHash, opts)
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(partitionKey string, opts RenderKeyOpts) string {
	return hashKey(KeyTypeRender, partitionKey, opts)
}

// Hash returns the hex SHA-256 digest of data. Keys built from it are
// stable across backends and releases.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Struct fields encode in
// declaration order and map keys sorted, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// hashKey returns "<kind>:<digest>" where the digest covers every component
// in order.
func hashKey(kind string, components ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, c := range components {
		// Encoding plain strings and option structs cannot fail.
		_ = enc.Encode(c)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
