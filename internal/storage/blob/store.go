package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/config"
)

// ProductImages is the public bucket product photos are uploaded to.
const ProductImages = "product-images"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type Uploader interface {
	// Upload stores content under bucket/name and returns its public URL.
	Upload(ctx context.Context, bucket, name string, content io.Reader) (string, error)
}

var _ Uploader = (*Store)(nil)

// Store keeps uploaded files on local disk and serves them over HTTP.
type Store struct {
	root      string
	publicURL string
	maxBytes  int64
}

func NewStore(cfg config.Blob) (*Store, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve blob root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}

	return &Store{
		root:      root,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxBytes:  cfg.MaxBytes,
	}, nil
}

// Upload accepts images only. The type is sniffed from the content, the
// declared one is ignored.
func (s *Store) Upload(ctx context.Context, bucket, name string, content io.Reader) (string, error) {
	rel, err := cleanKey(bucket, name)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperr.ErrInvalidImage.WithMsg(fmt.Sprintf("file is larger than %d bytes", s.maxBytes))
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", apperr.ErrInvalidImage.WithMsg(fmt.Sprintf("unsupported file type %s", mtype.String()))
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("move upload into place: %w", err)
	}

	return s.publicURL + "/" + (&url.URL{Path: rel}).EscapedPath(), nil
}

// Handler serves stored files. Mount it under the path of the public URL.
func (s *Store) Handler() http.Handler {
	return http.FileServer(http.Dir(s.root))
}

func cleanKey(bucket, name string) (string, error) {
	rel := path.Clean("/" + bucket + "/" + name)
	if rel == "/" || strings.Count(rel, "/") < 2 || strings.Contains(rel, "..") {
		return "", apperr.ErrInvalidImage.WithMsg("invalid file name")
	}
	return strings.TrimPrefix(rel, "/"), nil
}
