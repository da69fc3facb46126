// Package batch runs key to value lookups in bounded chunks
// Backends cap how many identifiers one request may carry, so a lookup over an
// arbitrary key set is split into fixed size chunks and the partial maps merged
package batch

import (
	"context"
	"fmt"
)

// DefaultChunk is the chunk size used when a caller passes a non positive size
const DefaultChunk = 100

// FetchFunc resolves one chunk of keys, keys without a record are simply absent from the map
type FetchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// Distinct returns keys deduped in first seen order
func Distinct[K comparable](keys []K) []K {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Chunks splits keys into consecutive slices of at most size elements
func Chunks[K any](keys []K, size int) [][]K {
	if size <= 0 {
		size = DefaultChunk
	}
	if len(keys) == 0 {
		return nil
	}
	out := make([][]K, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		out = append(out, keys[start:end:end])
	}
	return out
}

// Lookup dedupes keys, fetches them chunk by chunk and merges the results
// a failing chunk aborts the whole lookup, partial maps are never returned
func Lookup[K comparable, V any](ctx context.Context, keys []K, size int, fetch FetchFunc[K, V]) (map[K]V, error) {
	uniq := Distinct(keys)
	out := make(map[K]V, len(uniq))
	for i, chunk := range Chunks(uniq, size) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := fetch(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("batch chunk %d of %d keys: %w", i, len(chunk), err)
		}
		for k, v := range part {
			out[k] = v
		}
	}
	return out, nil
}
