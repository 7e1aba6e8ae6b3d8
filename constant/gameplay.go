package constant

import "time"

// Level Progression
const (
	// StartLevel is the level a fresh or restarted game begins at
	StartLevel = 1

	// ObjectiveLengthOffset is added to the current level to get objective length
	ObjectiveLengthOffset = 1
)

// Countdown
const (
	// CountdownBudget is the time allowed to reproduce one objective
	CountdownBudget = 6000 * time.Millisecond

	// CountdownTick is the granularity of countdown decrements and display refresh
	CountdownTick = 100 * time.Millisecond
)

// Transition Delays
const (
	// LevelAdvanceDelay is the congratulation display time before the next objective
	LevelAdvanceDelay = 3500 * time.Millisecond

	// RestartDelay is the lose screen duration before returning to the title state
	RestartDelay = 10000 * time.Millisecond

	// CooldownTick is the lose screen countdown step (10, 9, ... 0)
	CooldownTick = 1 * time.Second
)

// Input
const (
	// KeyReleaseDebounce synthesizes a key-up when terminal autorepeat stops
	// Must exceed the typical autorepeat interval (30-50ms) plus initial delay gap
	KeyReleaseDebounce = 550 * time.Millisecond

	// AutorepeatGap is the widest gap between presses of one key still read as
	// autorepeat; slower presses of a held key are new taps
	AutorepeatGap = 100 * time.Millisecond
)
