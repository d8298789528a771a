package kafka

import (
	"time"
)

func NewNotifierWithWriter(writer messageWriter, now func() time.Time) *Notifier {
	n := newNotifier(writer)
	n.now = now
	return n
}
