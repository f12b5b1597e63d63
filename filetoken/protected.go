package filetoken

import (
	"context"

	"github.com/viant/authsession/client"
	"github.com/viant/authsession/internal/collection"
)

// Lookup tells whether files of a collection require a token. known is false
// when the collection was never seen.
type Lookup interface {
	Protected(collectionID string) (protected bool, known bool)
}

// Lister lists collection schemas.
type Lister interface {
	List(ctx context.Context) ([]*client.Collection, error)
}

// ProtectedCollections maps collection ids to whether they have protected file fields.
type ProtectedCollections struct {
	values *collection.SyncMap[string, bool]
}

func (p *ProtectedCollections) Protected(collectionID string) (bool, bool) {
	return p.values.Get(collectionID)
}

func (p *ProtectedCollections) Set(collectionID string, protected bool) {
	p.values.Put(collectionID, protected)
}

func (p *ProtectedCollections) Delete(collectionID string) {
	p.values.Delete(collectionID)
}

// Load replaces the known collections.
func (p *ProtectedCollections) Load(collections []*client.Collection) {
	values := make(map[string]bool, len(collections))
	for _, item := range collections {
		if item == nil || item.ID == "" {
			continue
		}
		values[item.ID] = item.HasProtectedFiles()
	}
	p.values.Replace(values)
}

// Refresh reloads the known collections from lister.
func (p *ProtectedCollections) Refresh(ctx context.Context, lister Lister) error {
	collections, err := lister.List(ctx)
	if err != nil {
		return err
	}
	p.Load(collections)
	return nil
}

func NewProtectedCollections() *ProtectedCollections {
	return &ProtectedCollections{values: collection.NewSyncMap[string, bool]()}
}
