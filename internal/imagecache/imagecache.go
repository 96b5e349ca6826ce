// Package imagecache loads and caches overlay images by path. Decoding runs
// on background goroutines; a completion callback lets the UI repaint once a
// pending image becomes available. Failed loads are cached as misses so a bad
// path is not retried on every frame.
package imagecache

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"
)

// Cache is a path-keyed image cache with in-flight deduplication. It is safe
// for concurrent use.
type Cache struct {
	mu       sync.Mutex
	images   map[string]image.Image
	misses   map[string]bool
	inFlight map[string]bool
	onLoad   func(path string)
}

// New returns an empty cache. onLoad, if non-nil, is called from a background
// goroutine whenever a load attempt completes (successfully or not).
func New(onLoad func(path string)) *Cache {
	return &Cache{
		images:   map[string]image.Image{},
		misses:   map[string]bool{},
		inFlight: map[string]bool{},
		onLoad:   onLoad,
	}
}

// Image returns the decoded image for path if it is already cached. A miss
// kicks off a background load (unless one is already running or the path
// previously failed) and returns false.
func (c *Cache) Image(path string) (image.Image, bool) {
	if path == "" {
		return nil, false
	}
	c.mu.Lock()
	if img, ok := c.images[path]; ok {
		c.mu.Unlock()
		return img, true
	}
	if c.misses[path] || c.inFlight[path] {
		c.mu.Unlock()
		return nil, false
	}
	c.inFlight[path] = true
	c.mu.Unlock()

	go c.load(path)
	return nil, false
}

// Load decodes path synchronously, caching the result. Used by headless
// export where there is no event loop to wait on.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.Lock()
	if img, ok := c.images[path]; ok {
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	img, err := decodeFile(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, path)
	if err != nil {
		c.misses[path] = true
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// Size returns the pixel dimensions of a cached image.
func (c *Cache) Size(path string) (w, h int, ok bool) {
	img, ok := c.Image(path)
	if !ok {
		return 0, 0, false
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), true
}

// Forget drops any cached state for path, allowing a retry after the file
// changed on disk.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, path)
	delete(c.misses, path)
}

func (c *Cache) load(path string) {
	img, err := decodeFile(path)

	c.mu.Lock()
	delete(c.inFlight, path)
	if err != nil {
		log.Printf("imagecache: load %s: %v", path, err)
		c.misses[path] = true
	} else {
		c.images[path] = img
	}
	c.mu.Unlock()

	if c.onLoad != nil {
		c.onLoad(path)
	}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
