// Package timeouts defines shared timeout constants used across the game
// runtime. Centralizing these values prevents drift between the scheduler,
// storage, and entrypoint wiring and makes the durations discoverable.
package timeouts

import "time"

// Tick is the default period of the scheduler pass over all players.
const Tick = time.Minute

// SnapshotWrite caps the time allowed for one full snapshot write.
const SnapshotWrite = 5 * time.Second

// Shutdown limits how long the runtime waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second
