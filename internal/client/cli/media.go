package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/gabriel-vasile/mimetype"
)

// uploadFromPath describes a local file as an upload. The declared content
// type is sniffed from the file's leading bytes.
func uploadFromPath(path string) (models.Upload, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return models.Upload{}, err
	}
	if fi.IsDir() {
		return models.Upload{}, fmt.Errorf("%s is a directory", path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return models.Upload{}, err
	}

	return models.Upload{
		Name:        filepath.Base(path),
		ContentType: mt.String(),
		Size:        fi.Size(),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Add ingests every path; a bad path or a failed upload is reported and the
// rest of the batch continues.
func (a *App) Add(ctx context.Context, paths []string) error {
	var (
		uploads []models.Upload
		failed  int
	)
	for _, p := range paths {
		up, err := uploadFromPath(p)
		if err != nil {
			fmt.Fprintf(a.out, "Failed %s: %v\n", p, err)
			failed++
			continue
		}
		uploads = append(uploads, up)
	}
	if len(uploads) == 0 {
		return nil
	}

	res := a.client.Gallery.Add(ctx, uploads...)
	for _, r := range res.Added {
		fmt.Fprintf(a.out, "Added %s (%s, %s) id=%s\n", r.Name, r.Kind, models.FormatBytes(r.Size), r.ID)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(a.out, "Failed %s: %v\n", f.Name, f.Err)
	}
	if failed+len(res.Failed) > 0 {
		fmt.Fprintf(a.out, "%d added, %d failed\n", len(res.Added), failed+len(res.Failed))
	}
	return nil
}

func (a *App) List(context.Context) error {
	items := a.client.Gallery.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No media yet.")
		return nil
	}
	printItems(a.out, items)
	return nil
}

func printItems(w io.Writer, items []models.MediaRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tNAME\tSIZE\tADDED")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Kind, it.Name, models.FormatBytes(it.Size), it.CreatedAt.Local().Format(time.DateTime))
	}
	_ = tw.Flush()
}

func (a *App) Remove(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if _, ok := a.client.Gallery.Find(id); !ok {
			fmt.Fprintf(a.out, "No item %s\n", id)
			continue
		}
		if err := a.client.Gallery.Remove(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
			continue
		}
		fmt.Fprintf(a.out, "Removed %s\n", id)
	}
	return errors.Join(errs...)
}

func (a *App) Clear(ctx context.Context) error {
	n := len(a.client.Gallery.Items())
	if err := a.client.Gallery.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %d items\n", n)
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.client.Gallery.Reload(ctx); err != nil {
		return err
	}
	return a.List(ctx)
}
