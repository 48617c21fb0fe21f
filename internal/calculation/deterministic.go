package calculation

import "time"

// nowFunc stamps ProjectionResult.GeneratedAt.
var nowFunc = time.Now

// SetNowFunc replaces the clock used for GeneratedAt. Tests pin it so golden
// output stays stable; pass nil to restore the wall clock.
func SetNowFunc(f func() time.Time) {
	if f == nil {
		f = time.Now
	}
	nowFunc = f
}
