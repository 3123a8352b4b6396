package content

import "time"

const DefaultHeroInterval = 3 * time.Second

// Sequence assigns each title a fixed start delay so a client can cycle
// through them one interval apart. The input slice is not modified.
func Sequence(titles []HeroTitle, interval time.Duration) []HeroTitle {
	if interval <= 0 {
		interval = DefaultHeroInterval
	}
	step := interval.Milliseconds()
	out := make([]HeroTitle, len(titles))
	for i, t := range titles {
		t.DelayMs = int64(i) * step
		t.DurationMs = step
		out[i] = t
	}
	return out
}

// CycleMs is the length of one full rotation.
func CycleMs(titles []HeroTitle, interval time.Duration) int64 {
	if interval <= 0 {
		interval = DefaultHeroInterval
	}
	return int64(len(titles)) * interval.Milliseconds()
}
