package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/client/objectstore"
	"github.com/dmitrijs2005/gophgallery/internal/client/resolver"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/filex"
	"github.com/dmitrijs2005/gophgallery/internal/netx"
)

// download is a test seam for netx.DownloadSignedURL.
var download = netx.DownloadSignedURL

// Open saves the content behind an item's display reference to dest.
func (a *App) Open(ctx context.Context, id, dest string) error {
	item, ok := a.client.Gallery.Find(id)
	if !ok {
		return fmt.Errorf("item %s: %w", id, common.ErrorNotFound)
	}

	n, err := a.fetch(ctx, item.URI, dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s to %s (%d bytes)\n", item.Name, dest, n)
	return nil
}

func (a *App) fetch(ctx context.Context, uri, dest string) (int64, error) {
	switch {
	case strings.HasPrefix(uri, resolver.BlobScheme):
		lr, ok := a.client.Resolver.(*resolver.LocalResolver)
		if !ok {
			return 0, fmt.Errorf("no local resolver for %s", uri)
		}
		b, err := lr.Open(uri)
		if err != nil {
			return 0, err
		}
		return int64(len(b)), filex.WriteFileAtomic(dest, b, 0o600)

	case strings.HasPrefix(uri, objectstore.MemoryScheme):
		ms, ok := a.client.Objects.(*objectstore.MemoryStore)
		if !ok {
			return 0, fmt.Errorf("no memory object store for %s", uri)
		}
		b, err := ms.Open(uri)
		if err != nil {
			return 0, err
		}
		return int64(len(b)), filex.WriteFileAtomic(dest, b, 0o600)

	default:
		if err := filex.EnsureParentDir(dest); err != nil {
			return 0, err
		}
		f, err := os.Create(dest)
		if err != nil {
			return 0, err
		}
		n, err := download(ctx, uri, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dest)
			return 0, err
		}
		return n, nil
	}
}
