// Package storage provides the single named slot the project collection
// persists to: one plain JSON file, read at startup and fully replaced on
// every save. There is no schema version field in the format; a future field
// addition needs an explicit migration decision.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Slot is a durable byte slot. Read returns nil with no error when the slot
// has never been written.
type Slot interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

type fileSlot struct {
	path string
}

// NewFileSlot creates a file-backed slot, creating parent directories as
// needed on first write.
func NewFileSlot(path string) Slot {
	return &fileSlot{path: path}
}

func (s *fileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the slot contents via a temp file and rename so a crash
// mid-write cannot leave a half-written slot behind.
func (s *fileSlot) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create slot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp slot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp slot file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot: %w", err)
	}
	return nil
}

// MemorySlot is an in-process slot for tests and ephemeral sessions.
type MemorySlot struct {
	data []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read() ([]byte, error) {
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemorySlot) Write(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}
