// Package cache memoizes classification decisions so repeated evaluation of
// the same command is a map lookup instead of a rule-table walk. The cache
// is strictly an optimization: a hit and a miss for the same input return
// bit-identical descriptors, and eviction is never observable in output.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tcpguard/tcpguard/internal/classify"
)

// Defaults for the bounded LRU.
const (
	DefaultMaxEntries = 4096
	DefaultTTL        = 10 * time.Minute
)

// entry is the memoized outcome for one (rule table version, command) key.
type entry struct {
	result    classify.Result
	createdAt time.Time
}

// DecisionCache is a bounded-size, bounded-age memo of classification
// results. It is the only component in the decision path with shared
// mutable state; the underlying LRU is safe for concurrent readers and
// writers, and a write never blocks a read of an unrelated key.
type DecisionCache struct {
	classifier *classify.Classifier
	entries    *lru.LRU[string, entry]
}

// Option configures a DecisionCache.
type Option func(*options)

type options struct {
	maxEntries int
	ttl        time.Duration
}

// WithMaxEntries bounds the number of cached decisions.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithTTL bounds the age of cached decisions. Rule-table swaps already
// invalidate stale entries through the version-qualified key; the TTL just
// keeps dead keys from pinning memory.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// New creates a decision cache in front of the given classifier.
func New(classifier *classify.Classifier, opts ...Option) *DecisionCache {
	o := options{maxEntries: DefaultMaxEntries, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &DecisionCache{
		classifier: classifier,
		entries:    lru.NewLRU[string, entry](o.maxEntries, nil, o.ttl),
	}
}

// GetOrClassify returns the memoized decision for a command, classifying on
// miss. The key is the normalized command qualified by the rule table
// version, so a rule reload can never serve decisions from the old table.
// Documentation text is part of the classification input, so commands with
// doc text bypass the cache (doc blobs make poor keys and the lookup saves
// nothing next to the keyword scan).
func (c *DecisionCache) GetOrClassify(command, doc string) (classify.Result, error) {
	if doc != "" {
		return c.classifier.Classify(command, doc)
	}

	table := c.classifier.Snapshot()
	key := table.Version() + "\x00" + classify.Normalize(command).Joined
	if cached, ok := c.entries.Get(key); ok {
		return cached.result, nil
	}

	result, err := classify.ClassifyWith(table, command, "")
	if err != nil {
		return classify.Result{}, err
	}
	c.entries.Add(key, entry{result: result, createdAt: time.Now()})
	return result, nil
}

// Len returns the number of live cached decisions.
func (c *DecisionCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached decision.
func (c *DecisionCache) Purge() {
	c.entries.Purge()
}
