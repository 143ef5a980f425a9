package settings

import (
	"context"
	"sync"

	"github.com/meower-media/notifications/pkg/meowid"
	"github.com/meower-media/notifications/pkg/notifications"
)

// MemoryRepository keeps settings in process memory. Callers always get copies.
type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]*notifications.Settings
	byId   map[int64]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUser: make(map[string]*notifications.Settings),
		byId:   make(map[int64]string),
	}
}

// Put stores s as the user's settings, assigning an id if it has none.
func (r *MemoryRepository) Put(s *notifications.Settings) *notifications.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := s.Clone()
	if c.Id == 0 {
		c.Id = meowid.GenId()
	}
	if old, ok := r.byUser[c.UserId]; ok {
		delete(r.byId, old.Id)
	}
	r.byUser[c.UserId] = c
	r.byId[c.Id] = c.UserId
	return c.Clone()
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, userId string) (*notifications.Settings, error) {
	r.mu.RLock()
	s, ok := r.byUser[userId]
	if ok {
		defer r.mu.RUnlock()
		return s.Clone(), nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byUser[userId]; ok {
		return s.Clone(), nil
	}
	s = notifications.DefaultSettings(meowid.GenId(), userId)
	r.byUser[userId] = s
	r.byId[s.Id] = userId
	return s.Clone(), nil
}

func (r *MemoryRepository) Update(_ context.Context, settingsId int64, p notifications.Patch) (*notifications.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userId, ok := r.byId[settingsId]
	if !ok {
		return nil, ErrNotFound
	}
	s := r.byUser[userId]
	p.Apply(s)
	return s.Clone(), nil
}
