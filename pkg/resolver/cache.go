package resolver

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/logger"
	"github.com/sid-acryl/lookml-lineage/pkg/urn"
)

// ViewIdentity pins down which file and model a view name resolves to.
// Identities are created once per (view name, folder) pair and live for the
// whole ingestion run.
type ViewIdentity struct {
	ModelName string
	ViewName  string
	FilePath  string
}

func (id *ViewIdentity) URN(cfg *config.Config) string {
	return urn.LookerView(id.ModelName, id.ViewName, "", cfg.Env)
}

// ViewFinder locates the file declaring a view, searching the given folder
// first and all known view files as fallback.
type ViewFinder interface {
	FindView(viewName, folder string) (filePath string, ok bool)
}

// IdentityCache memoizes view-identity resolution. Lookups are safe for
// concurrent use and resolve at most once per key; a miss is cached just like
// a hit so the finder is never re-consulted.
type IdentityCache struct {
	modelName string
	finder    ViewFinder
	log       logger.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*ViewIdentity
}

func NewIdentityCache(modelName string, finder ViewFinder, log logger.Logger) *IdentityCache {
	return &IdentityCache{
		modelName: modelName,
		finder:    finder,
		log:       log,
		entries:   map[string]*ViewIdentity{},
	}
}

// Get returns the identity of a view, resolving it on first access. The
// second return is false when the view is not declared anywhere; callers
// treat that as "no derived-view binding available".
func (c *IdentityCache) Get(viewName, folder string) (*ViewIdentity, bool) {
	key := viewName + "\x00" + folder

	c.mu.RLock()
	id, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return id, id != nil
	}

	result, _, _ := c.group.Do(key, func() (interface{}, error) {
		var resolved *ViewIdentity

		filePath, found := c.finder.FindView(viewName, folder)
		if found {
			resolved = &ViewIdentity{
				ModelName: c.modelName,
				ViewName:  viewName,
				FilePath:  filePath,
			}
		} else {
			c.log.Debugf("view %q not found under %q or any known view file", viewName, folder)
		}

		c.mu.Lock()
		c.entries[key] = resolved
		c.mu.Unlock()

		return resolved, nil
	})

	id, _ = result.(*ViewIdentity)

	return id, id != nil
}
