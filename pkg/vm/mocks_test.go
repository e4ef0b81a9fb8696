package vm

import (
	"errors"
	"image"
	"sync"
)

// mockPersister records saved images instead of writing files.
type mockPersister struct {
	mu     sync.Mutex
	paths  []string
	images []image.Image
	err    error
}

func (m *mockPersister) Save(img image.Image, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.paths = append(m.paths, path)
	m.images = append(m.images, img)
	return nil
}

// mockDisplayer records displayed images.
type mockDisplayer struct {
	images []image.Image
	err    error
}

func (m *mockDisplayer) Display(img image.Image) error {
	if m.err != nil {
		return m.err
	}
	m.images = append(m.images, img)
	return nil
}

var errMock = errors.New("mock failure")
