package oaipmh

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// CompressThreshold is the payload size in bytes above which cache
// entries are stored gzip compressed.
const CompressThreshold = 1024

// DefaultCacheDir is the cache directory name under the user home.
const DefaultCacheDir = ".oaipmhcache"

// ErrBadKey is returned for keys that escape the cache root.
var ErrBadKey = errors.New("bad key")

// DirCache stores byte values under a root directory. Keys must clean
// to a relative path below the root. Writes are atomic, values above
// CompressThreshold are gzip compressed on disk and decompressed
// transparently on reads.
type DirCache struct {
	directory string
}

// NewDirCache creates a cache rooted at the given directory.
func NewDirCache(directory string) (*DirCache, error) {
	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, err
	}
	return &DirCache{directory: abs}, nil
}

// NewHomeDirCache places the cache under the user home directory.
func NewHomeDirCache() (*DirCache, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	return NewDirCache(filepath.Join(home, DefaultCacheDir))
}

// Dir returns the absolute cache root.
func (c *DirCache) Dir() string {
	return c.directory
}

func (c *DirCache) cleanKey(k string) (string, error) {
	s := filepath.Clean(path.Join(c.directory, k))
	if !strings.HasPrefix(s, c.directory) {
		return "", ErrBadKey
	}
	return s, nil
}

// Has reports whether a value has been stored under the key.
func (c *DirCache) Has(k string) bool {
	pth, err := c.cleanKey(k)
	if err != nil {
		return false
	}
	_, err = os.Stat(pth)
	return err == nil
}

// Set stores a value. Data goes to a temporary file in the target
// directory first and is renamed into place, partial writes never
// become visible.
func (c *DirCache) Set(k string, b []byte) error {
	pth, err := c.cleanKey(k)
	if err != nil {
		return err
	}
	dir := filepath.Dir(pth)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "oaipmh-")
	if err != nil {
		return err
	}
	if err := writeMaybeCompressed(tmp, b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), pth)
}

func writeMaybeCompressed(w io.Writer, b []byte) error {
	if len(b) < CompressThreshold {
		_, err := w.Write(b)
		return err
	}
	gz := gzip.NewWriter(w)
	if _, err := gz.Write(b); err != nil {
		return err
	}
	return gz.Close()
}

// Get returns a stored value, decompressing if necessary.
func (c *DirCache) Get(k string) ([]byte, error) {
	pth, err := c.cleanKey(k)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(pth)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	br := bufio.NewReader(file)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}
