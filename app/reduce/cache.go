package reduce

import (
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes projections so adjusting an unrelated control never
// re-runs the reduction. Keys are content-addressed: dataset fingerprint
// plus the parameter tuple.
type Cache struct {
	entries *lru.Cache[string, *Projection]
}

func NewCache(size int) *Cache {
	entries, err := lru.New[string, *Projection](size)
	if err != nil {
		panic(err)
	}
	return &Cache{entries: entries}
}

// Key derives the cache key for one (dataset, parameters) pair.
func Key(fingerprint string, p Params) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d|%g", fingerprint, p.Perplexity, p.Iterations, p.LearningRate))
	return fmt.Sprintf("%x", sum)
}

func (c *Cache) Get(key string) (*Projection, bool) {
	return c.entries.Get(key)
}

func (c *Cache) Add(key string, proj *Projection) {
	c.entries.Add(key, proj)
}
