package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is a process-local backend for tests and ephemeral runs.
type Memory struct {
	mu     sync.Mutex
	doc    []byte
	logs   []ImportLog
	nextID int64
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(m.doc), nil
}

func (m *Memory) Save(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = slices.Clone(doc)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = nil
	return nil
}

func (m *Memory) InsertImportLog(_ context.Context, log ImportLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	log.ID = m.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	m.logs = append(m.logs, log)
	return log.ID, nil
}

func (m *Memory) QueryImportLogs(_ context.Context, limit int) ([]ImportLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit = importLogLimit(limit)
	var out []ImportLog
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
