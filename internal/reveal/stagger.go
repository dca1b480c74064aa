package reveal

import (
	"strconv"
	"time"
)

// Stagger spaces the entrance of the items in one section.
type Stagger struct {
	Base   time.Duration
	Stride time.Duration
}

// Delay returns Base + i*Stride. Negative indices count as 0.
func (s Stagger) Delay(i int) time.Duration {
	if i < 0 {
		i = 0
	}
	return s.Base + time.Duration(i)*s.Stride
}

// CSS formats Delay(i) as a CSS time value, e.g. "0.3s".
func (s Stagger) CSS(i int) string {
	return strconv.FormatFloat(s.Delay(i).Seconds(), 'f', -1, 64) + "s"
}

// Classes picks the settled class set once revealed, the resting one before.
func Classes(revealed bool, settled, resting string) string {
	if revealed {
		return settled
	}
	return resting
}
