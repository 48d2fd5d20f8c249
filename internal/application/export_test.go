package application

import "time"

// SetClock replaces the time and random sources used for file names and throttling.
func (f *LinkFacade) SetClock(now func() time.Time, randIntn func(int) int) {
	f.now = now
	f.randIntn = randIntn
}

var MediaFileName = mediaFileName
