// Package cache stores rendered post pages on disk so repeat views of
// the same post skip the database and markdown rendering.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

const cacheRoot = "cache"

// PagePath returns the cache file path for one post page.
func PagePath(postID string) string {
	hash := xxhash.Sum64String("post:" + postID)
	return filepath.Join(cacheRoot, "posts", fmt.Sprintf("%s_%016x.html", postID, hash))
}

func ensureCacheDir() error {
	return os.MkdirAll(filepath.Join(cacheRoot, "posts"), 0755)
}

// WritePage writes rendered HTML for a post page.
func WritePage(postID, html string) error {
	if err := ensureCacheDir(); err != nil {
		return err
	}
	return os.WriteFile(PagePath(postID), []byte(html), 0644)
}

// ReadPage returns the cached HTML for a post page if present and not
// older than maxAge.
func ReadPage(postID string, maxAge time.Duration) (string, bool) {
	path := PagePath(postID)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// ClearPage removes the cached page for one post. Missing files are
// not an error: edit and delete both call this unconditionally.
func ClearPage(postID string) error {
	err := os.Remove(PagePath(postID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearAll removes every cached post page.
func ClearAll() error {
	return os.RemoveAll(filepath.Join(cacheRoot, "posts"))
}

// ClearOld removes cached pages older than maxAge.
func ClearOld(maxAge time.Duration) error {
	return filepath.Walk(cacheRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}
		return nil
	})
}
