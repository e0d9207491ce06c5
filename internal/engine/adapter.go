// Package engine assembles every other internal package into the
// engine.Engine facade: the command surface a UI shell binds to, one
// exported method per command, plus the events.Bus a shell subscribes to.
package engine

import (
	"time"

	"pushtohold/internal/capture"
	"pushtohold/internal/coordinator"
)

// preInitAdapter wraps a *capture.PreInitManager so it satisfies
// coordinator.SessionProvider. The two packages cannot import each other
// directly (capture is lower-level than coordinator), so this adapter is
// the one place that converts PreInitManager's concrete *capture.Session
// return value into the coordinator.Session interface type.
type preInitAdapter struct {
	manager *capture.PreInitManager
}

func newPreInitAdapter(m *capture.PreInitManager) *preInitAdapter {
	return &preInitAdapter{manager: m}
}

func (a *preInitAdapter) Acquire() (coordinator.Session, bool, time.Duration, error) {
	session, wasReady, latency, err := a.manager.Acquire()
	if err != nil {
		return nil, wasReady, latency, err
	}
	return session, wasReady, latency, nil
}

func (a *preInitAdapter) RequestReinitialize() {
	a.manager.RequestReinitialize()
}
