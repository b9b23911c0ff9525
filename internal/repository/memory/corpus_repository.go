package memory

import (
	"prepareup-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// CorpusRepository holds extracted upload text in memory with the contract's
// 30 minute TTL. Expired entries are indistinguishable from unknown ids.
type CorpusRepository struct {
	cache *cache.Cache
}

func NewCorpusRepository() *CorpusRepository {
	c := cache.New(store.CorpusTTL, store.CorpusSweepPeriod)
	return &CorpusRepository{
		cache: c,
	}
}

func (r *CorpusRepository) Save(corpus *store.Corpus) {
	r.cache.Set(corpus.ID, corpus, cache.DefaultExpiration)
}

func (r *CorpusRepository) Get(sessionID string) (*store.Corpus, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Corpus), true
	}
	return nil, false
}

func (r *CorpusRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
