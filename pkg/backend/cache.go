package backend

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hirewell/revshare/pkg/proto"
)

// cache holds decoded split configurations by id. Stored configurations
// are immutable, so entries never go stale. IsDefault is not cached.
type cache struct {
	configs *lru.Cache[int64, proto.SplitConfiguration]
}

func newCache(size int) *cache {
	if size <= 0 {
		size = 1
	}
	configs, _ := lru.New[int64, proto.SplitConfiguration](size)
	return &cache{configs: configs}
}

func (c *cache) Get(id int64) (proto.SplitConfiguration, bool) {
	return c.configs.Get(id)
}

func (c *cache) Set(cfg proto.SplitConfiguration) {
	cfg.IsDefault = false
	c.configs.Add(cfg.ID, cfg)
}

func (c *cache) Len() int {
	return c.configs.Len()
}
