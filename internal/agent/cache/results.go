// Package cache memoizes analysis results per (image, crop, language) for the
// lifetime of the process so a paid model call is never repeated.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/leafdoc-core/server/internal/agent/model"
)

// ImageKeyOf derives the image identity from its content.
func ImageKeyOf(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// Key identifies one cached diagnosis.
type Key struct {
	ImageKey string
	CropID   string
	Language model.Language
}

func (k Key) String() string {
	return k.ImageKey + "|" + k.CropID + "|" + string(k.Language)
}

// Results is an unbounded, non-expiring, write-once result cache.
type Results struct {
	c *cache.Cache
}

func NewResults() *Results {
	return &Results{c: cache.New(cache.NoExpiration, 0)}
}

// Get returns the cached result for k.
func (r *Results) Get(k Key) (model.AnalysisResult, bool) {
	v, ok := r.c.Get(k.String())
	if !ok {
		return model.AnalysisResult{}, false
	}
	res, ok := v.(model.AnalysisResult)
	return res, ok
}

// Put stores res under k unless k is already present. It reports whether res
// was stored; the first write for a key always wins.
func (r *Results) Put(k Key, res model.AnalysisResult) bool {
	return r.c.Add(k.String(), res, cache.NoExpiration) == nil
}

// Languages lists the languages cached for an image and crop, sorted.
func (r *Results) Languages(imageKey, cropID string) []model.Language {
	prefix := imageKey + "|" + cropID + "|"
	var out []model.Language
	for k := range r.c.Items() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, model.Language(strings.TrimPrefix(k, prefix)))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of cached results.
func (r *Results) Len() int {
	return r.c.ItemCount()
}

// Flush drops everything, as a full application reload would.
func (r *Results) Flush() {
	r.c.Flush()
}
