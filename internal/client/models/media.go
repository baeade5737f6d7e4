// Package models defines the client-side gallery data model: media records,
// uploads and local accounts.
package models

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Kind classifies a media record for rendering.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindFromContentType derives the kind from a declared content type. Anything
// that is not image/* (including an empty type) is treated as video.
func KindFromContentType(contentType string) Kind {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image") {
		return KindImage
	}
	return KindVideo
}

// ParseKind maps a persisted kind string back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, KindVideo:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown media kind %q", s)
	}
}

// MediaRecord is one stored media item scoped to a single owner.
type MediaRecord struct {
	// ID is unique within the owner's partition.
	ID string

	// OwnerKey identifies the partition. It never changes after creation.
	OwnerKey string

	Kind Kind
	Name string
	Size int64

	// Payload holds the bytes while a local store hands the record to the
	// resolver. Remote records never carry it.
	Payload []byte

	// ObjectKey is the object store path of a remote record.
	ObjectKey string

	CreatedAt time.Time

	// URI is the display reference set by the resolver. Never persisted.
	URI string
}

// Clone returns a shallow copy that does not share the payload slice header.
func (r *MediaRecord) Clone() *MediaRecord {
	c := *r
	return &c
}

// Upload is a single file offered for ingestion.
type Upload struct {
	Name        string
	ContentType string
	Size        int64

	// Open returns a fresh reader over the file contents.
	Open func() (io.ReadCloser, error)
}

// ReadAll opens the upload and reads it completely.
func (u Upload) ReadAll() ([]byte, error) {
	if u.Open == nil {
		return nil, fmt.Errorf("upload %q has no source", u.Name)
	}
	rc, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

var (
	unsafeNameChars = regexp.MustCompile(`[^\w.\- ]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

const maxSafeNameLen = 120

// SanitizeFilename turns a display name into a safe object key segment.
func SanitizeFilename(name string) string {
	s := unsafeNameChars.ReplaceAllString(name, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	if len(s) > maxSafeNameLen {
		s = s[:maxSafeNameLen]
	}
	if s == "" {
		return "file"
	}
	return s
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count with one decimal, e.g. "2.0 KB".
func FormatBytes(n int64) string {
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[i])
}
