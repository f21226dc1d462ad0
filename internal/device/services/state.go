package services

import "sync/atomic"

// SyncState holds the connectivity flag and the non-reentrancy guard for the
// sync engine. One instance is constructed at startup and shared by handle;
// there are no package-level globals.
type SyncState struct {
	online     atomic.Bool
	inProgress atomic.Bool
}

func NewSyncState() *SyncState { return &SyncState{} }

func (s *SyncState) Online() bool { return s.online.Load() }

func (s *SyncState) setOnline(v bool) bool { return s.online.Swap(v) }

// InProgress reports whether a sync pass is currently running.
func (s *SyncState) InProgress() bool { return s.inProgress.Load() }

// tryBegin attempts to claim the sync slot. Concurrent triggers while a pass
// is running are dropped, not queued.
func (s *SyncState) tryBegin() bool { return s.inProgress.CompareAndSwap(false, true) }

func (s *SyncState) end() { s.inProgress.Store(false) }
