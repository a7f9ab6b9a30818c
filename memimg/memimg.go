package memimg

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Sprites 内存中的贴图，已缩放到格子大小。键为去掉扩展名的文件名，
// 例如 head、body、food
type Sprites struct {
	mu     sync.RWMutex
	images map[string]image.Image
	size   int
}

func NewSprites(cellSize int) *Sprites {
	return &Sprites{images: make(map[string]image.Image), size: cellSize}
}

// Load walks directory and caches every decodable image. Files that fail
// to decode are skipped with a log line.
func (s *Sprites) Load(directory string) error {
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if err := s.loadFile(path); err != nil {
			log.Printf("skip sprite %s: %v", path, err)
		}
		return nil
	})
}

func (s *Sprites) loadFile(path string) error {
	img, err := LoadImage(path)
	if err != nil {
		return err
	}
	scaled := imaging.Resize(img, s.size, s.size, imaging.Lanczos)
	s.mu.Lock()
	s.images[spriteName(path)] = scaled
	s.mu.Unlock()
	return nil
}

func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Watch 监听目录，贴图被修改、新增或删除时同步到内存，直到ctx结束
func (s *Sprites) Watch(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handle(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("sprite watcher error:", err)
		}
	}
}

func (s *Sprites) handle(event fsnotify.Event) {
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		if err := s.loadFile(event.Name); err != nil {
			log.Printf("reload sprite %s: %v", event.Name, err)
		}
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		s.mu.Lock()
		delete(s.images, spriteName(event.Name))
		s.mu.Unlock()
	}
}

func (s *Sprites) Get(name string) (image.Image, bool) {
	s.mu.RLock()
	img, exists := s.images[name]
	s.mu.RUnlock()
	return img, exists
}

func (s *Sprites) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
