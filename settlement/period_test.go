package settlement

import (
	"testing"
	"time"
)

func TestPeriodContains(t *testing.T) {
	p := Month(2025, time.June, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start inclusive", date(2025, time.June, 1), true},
		{"mid period", ts(2025, time.June, 15, 13), true},
		{"end exclusive", date(2025, time.July, 1), false},
		{"before start", ts(2025, time.May, 31, 23), false},
		{"last instant", date(2025, time.July, 1).Add(-time.Second), true},
	}
	for _, tt := range tests {
		if got := p.Contains(tt.t); got != tt.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tt.name, tt.t, got, tt.want)
		}
	}
}

func TestTrailingWindowIncludesNow(t *testing.T) {
	now := ts(2025, time.June, 30, 12)
	w := TrailingWindow(now, 3)

	if !w.Contains(now) {
		t.Error("window must include now")
	}
	if !w.Contains(date(2025, time.April, 15)) {
		t.Error("window must include a date two and a half months back")
	}
	if w.Contains(date(2025, time.March, 15)) {
		t.Error("window must exclude dates beyond three months back")
	}
}
