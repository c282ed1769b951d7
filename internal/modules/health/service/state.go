package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCycleUnix atomic.Int64 // unix seconds
	cyclesTotal   atomic.Int64
	dealsChecked  atomic.Int64 // за последний цикл
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// TouchCycle фиксирует завершённый цикл мониторинга.
func (s *State) TouchCycle(t time.Time, dealsChecked int) {
	s.lastCycleUnix.Store(t.Unix())
	s.cyclesTotal.Add(1)
	s.dealsChecked.Store(int64(dealsChecked))
}

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) CyclesTotal() int64  { return s.cyclesTotal.Load() }
func (s *State) DealsChecked() int64 { return s.dealsChecked.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
