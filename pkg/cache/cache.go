// Package cache stores solved mazes and rendered artifacts.
//
// Every backend implements [Cache], a byte-oriented key/value store with
// per-entry TTL:
//   - [FileCache] keeps entries under a local directory (CLI default)
//   - [RedisCache] shares entries between server replicas
//   - [MongoCache] keeps entries in a collection with a TTL index
//   - [NullCache] disables caching
//
// Keys come from a [Keyer] so that the CLI and the server agree on them.
package cache

import (
	"context"
	"time"
)

// Default time-to-live for cached entries.
const (
	SolutionTTL = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized results.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SolutionKeyOpts are the solver settings that change a solution.
type SolutionKeyOpts struct {
	Frontier       string `json:"frontier"`
	EntranceWeight string `json:"entrance_weight"`
	Threshold      uint8  `json:"threshold"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Kind    string `json:"kind"`
	Format  string `json:"format"`
	Scale   int    `json:"scale"`
	Palette string `json:"palette"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SolutionKey keys a solution by the maze's content hash.
	SolutionKey(mazeHash string, opts SolutionKeyOpts) string
	// ArtifactKey keys a rendered artifact by its solution key.
	ArtifactKey(solutionKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolutionKey returns "solution:<hash>".
func (DefaultKeyer) SolutionKey(mazeHash string, opts SolutionKeyOpts) string {
	return hashKey("solution", mazeHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(solutionKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionKey, opts)
}

var _ Keyer = DefaultKeyer{}
