package state

// IsPaused reports whether the named module is frozen. Absent entries mean
// unpaused, which doubles as the initial state at genesis.
func (m *Manager) IsPaused(module string) bool {
	var paused bool
	ok, err := m.kvGet(pauseKey(module), &paused)
	if err != nil || !ok {
		return false
	}
	return paused
}

// SetPaused stores the pause flag for the named module.
func (m *Manager) SetPaused(module string, paused bool) error {
	return m.kvPut(pauseKey(module), paused)
}
