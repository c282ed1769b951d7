package runner

import (
	"sync"

	"botnanny/internal/models"
)

// SnapshotStore — локальный кэш по сделкам в рамках одного запуска.
// Коммит строго после подтверждённого Ack от 3Commas, никогда спекулятивно —
// иначе локальное состояние разъедется с удалённым при частичном отказе.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[int64]models.Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snaps: make(map[int64]models.Snapshot)}
}

func (s *SnapshotStore) Get(dealID int64) (models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[dealID]
	return snap, ok
}

func (s *SnapshotStore) Commit(dealID int64, snap models.Snapshot) {
	s.mu.Lock()
	s.snaps[dealID] = snap
	s.mu.Unlock()
}

func (s *SnapshotStore) Evict(dealID int64) {
	s.mu.Lock()
	delete(s.snaps, dealID)
	s.mu.Unlock()
}

// PruneExcept выкидывает снапшоты сделок, которых больше нет среди активных.
// Звать только при полном обзоре: упавший таргет не повод терять дедупликацию.
func (s *SnapshotStore) PruneExcept(active map[int64]struct{}) {
	s.mu.Lock()
	for id := range s.snaps {
		if _, ok := active[id]; !ok {
			delete(s.snaps, id)
		}
	}
	s.mu.Unlock()
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}
