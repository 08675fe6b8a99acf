// package catalog defines the read-only song catalog consumed by the loader
//
// The catalog owns song metadata and assigns all song references; this
// module never writes to it. Rows can vanish at any time (files deleted,
// permission revoked), so resolution is best-effort by contract.
package catalog

import (
	"context"

	"github.com/treblfm/playlistkit/internal/models"
)

// Gateway resolves a batch of song references against the media catalog.
//
// The result map contains an entry per reference with a current catalog
// record; references with none are simply absent. Implementations degrade
// unavailable or permission-denied catalogs to an empty map rather than
// failing the caller, so the loader's silent-drop contract holds end to end.
// Input order carries no meaning. Batches can be as large as the largest
// playlist.
type Gateway interface {
	Resolve(ctx context.Context, ids []int64) (map[int64]models.Song, error)
}

// Unavailable is the Gateway used when no catalog is configured. Every
// resolution comes back empty, which downstream code treats the same as
// a catalog whose rows have all vanished.
type Unavailable struct{}

func (Unavailable) Resolve(ctx context.Context, ids []int64) (map[int64]models.Song, error) {
	return map[int64]models.Song{}, nil
}
