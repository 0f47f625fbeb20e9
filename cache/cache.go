// Package cache memoizes parse results by file name and source content. Node
// locations and errors carry the file name, so it is part of the key.
package cache

import (
	"fmt"
	"sync/atomic"

	spooky "github.com/dgryski/go-spooky"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/example/esparse/parser"
)

// Key identifies a parse by file name, source hash and the options that
// affect its outcome.
type Key struct {
	File    string
	Hash    uint64
	Length  int
	Options string
}

type entry struct {
	res *parser.Result
	err error
}

// Cache is a fixed-size LRU of parse outcomes. It is safe for concurrent use.
type Cache struct {
	lru *lru.Cache

	hits, misses atomic.Int64
}

// New returns a cache holding at most size results.
func New(size int) (*Cache, error) {
	l, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "creating parse cache of size %d", size)
	}
	return &Cache{lru: l}, nil
}

// KeyFor builds the cache key for a source parsed under fileName with opts.
func KeyFor(source, fileName string, opts parser.Options) Key {
	return Key{
		File:   fileName,
		Hash:   spooky.Hash64([]byte(source)),
		Length: len(source),
		Options: fmt.Sprintf("%s/%t/%t/%t",
			opts.SourceType, opts.AllowHashBang, opts.Comments, opts.CheckRegExp),
	}
}

// Parse returns the cached outcome for source, parsing it on a miss. Both
// results and syntax errors are cached. The returned Result is shared and
// must not be modified.
func (c *Cache) Parse(source, fileName string, opts ...parser.Option) (*parser.Result, error) {
	o := parser.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	key := KeyFor(source, fileName, o)
	if v, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		e := v.(entry)
		return e.res, e.err
	}
	c.misses.Add(1)
	res, err := parser.ParseProgram(source, fileName, opts...)
	c.lru.Add(key, entry{res: res, err: err})
	return res, err
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int { return c.lru.Len() }

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) { return c.hits.Load(), c.misses.Load() }
