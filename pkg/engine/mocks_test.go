package engine

import (
	"errors"
	"image"
	"sync"
	"time"
)

// mockPersister records persisted images instead of writing files.
type mockPersister struct {
	mu     sync.Mutex
	images map[string]image.Image
	order  []string
	err    error
	delay  map[string]time.Duration // パスごとの保存遅延
}

func newMockPersister() *mockPersister {
	return &mockPersister{images: make(map[string]image.Image)}
}

func (m *mockPersister) Save(img image.Image, path string) error {
	if d, ok := m.delay[path]; ok {
		time.Sleep(d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.images[path] = img
	m.order = append(m.order, path)
	return nil
}

func (m *mockPersister) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// assembleCall is one recorded Assemble invocation.
type assembleCall struct {
	basename string
	frames   []string
}

// mockAssembler records Assemble calls.
type mockAssembler struct {
	calls []assembleCall
	err   error
}

func (m *mockAssembler) Assemble(basename string, frames []string) error {
	m.calls = append(m.calls, assembleCall{basename: basename, frames: append([]string(nil), frames...)})
	return m.err
}

var errMock = errors.New("mock failure")
