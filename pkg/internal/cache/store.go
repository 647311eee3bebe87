package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoCache "github.com/eko/gocache/store/ristretto/v4"
)

var S store.StoreInterface

var client *ristretto.Cache

func NewStore() error {
	ris, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}

	client = ris
	S = ristrettoCache.NewRistretto(ris)

	return nil
}

// Wait blocks until every buffered set has been applied.
func Wait() {
	if client != nil {
		client.Wait()
	}
}

func Clear() {
	if client != nil {
		client.Clear()
	}
}
