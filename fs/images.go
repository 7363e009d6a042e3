// Package fs provides file-based storage for mirrored images.
package fs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/lnreader"
)

// URLToPath converts an image URL to a relative file path that mirrors the
// URL path. URLs without a usable file name fall back to a name derived
// from the hash of the whole URL.
// Example: https://host/project/images/a/ab/Pic.jpg → project/images/a/ab/Pic.jpg
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", lnreader.Wrapf(lnreader.EINVALID, err, "invalid image URL %q", rawURL)
	}

	// Cleaning a rooted path keeps it inside the root.
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case p == "":
		return hashName(rawURL, ""), nil
	case strings.HasSuffix(u.Path, "/"):
		return path.Join(p, hashName(rawURL, "")), nil
	case u.RawQuery != "":
		return path.Join(path.Dir(p), hashName(rawURL, path.Ext(p))), nil
	}
	return p, nil
}

func hashName(rawURL, ext string) string {
	return strconv.FormatUint(xxhash.Sum64String(rawURL), 16) + ext
}

// ImagePath returns the local file path of an image URL under root.
func ImagePath(root, rawURL string) (string, error) {
	rel, err := URLToPath(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// LocalURI returns the file URI of a local path.
func LocalURI(localPath string) string {
	return "file://" + filepath.ToSlash(localPath)
}

// ImageStore manages the image directory tree.
type ImageStore struct {
	root string
}

// NewImageStore creates an ImageStore rooted at root.
func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Root returns the image root directory.
func (s *ImageStore) Root() string {
	return s.root
}

// Path returns the local path of an image URL.
func (s *ImageStore) Path(rawURL string) (string, error) {
	return ImagePath(s.root, rawURL)
}

// Exists reports whether the image has been downloaded.
func (s *ImageStore) Exists(rawURL string) bool {
	p, err := s.Path(rawURL)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes a downloaded image. Removing a missing image is a no-op.
func (s *ImageStore) Remove(rawURL string) error {
	p, err := s.Path(rawURL)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes every downloaded image.
func (s *ImageStore) RemoveAll() error {
	if s.root == "" || s.root == "/" {
		return lnreader.Errorf(lnreader.EINVALID, "refusing to remove image root %q", s.root)
	}
	return os.RemoveAll(s.root)
}
