package model

import (
	"testing"
	"time"
)

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		startTime string
		endTime   string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name:      "same day window",
			date:      "2026-09-10",
			startTime: "18:00",
			endTime:   "22:00",
			wantStart: "2026-09-10 18:00",
			wantEnd:   "2026-09-10 22:00",
		},
		{
			name:      "end before start crosses midnight",
			date:      "2026-09-10",
			startTime: "23:00",
			endTime:   "01:00",
			wantStart: "2026-09-10 23:00",
			wantEnd:   "2026-09-11 01:00",
		},
		{
			name:      "end equal to start crosses midnight",
			date:      "2026-09-10",
			startTime: "18:00",
			endTime:   "18:00",
			wantStart: "2026-09-10 18:00",
			wantEnd:   "2026-09-11 18:00",
		},
		{
			name:      "invalid date",
			date:      "10-09-2026",
			startTime: "18:00",
			endTime:   "22:00",
			wantErr:   true,
		},
		{
			name:      "invalid start time",
			date:      "2026-09-10",
			startTime: "6pm",
			endTime:   "22:00",
			wantErr:   true,
		},
		{
			name:      "invalid end time",
			date:      "2026-09-10",
			startTime: "18:00",
			endTime:   "25:00",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := ResolveWindow(tt.date, tt.startTime, tt.endTime)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got window %v", window)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			const layout = "2006-01-02 15:04"
			if got := window.Start.Format(layout); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := window.End.Format(layout); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestTimeWindowOverlaps(t *testing.T) {
	window := func(date, start, end string) TimeWindow {
		w, err := ResolveWindow(date, start, end)
		if err != nil {
			t.Fatalf("failed to resolve window: %v", err)
		}
		return w
	}

	tests := []struct {
		name string
		a    TimeWindow
		b    TimeWindow
		want bool
	}{
		{
			name: "identical windows overlap",
			a:    window("2026-09-10", "18:00", "22:00"),
			b:    window("2026-09-10", "18:00", "22:00"),
			want: true,
		},
		{
			name: "partial overlap",
			a:    window("2026-09-10", "18:00", "22:00"),
			b:    window("2026-09-10", "20:00", "23:00"),
			want: true,
		},
		{
			name: "containment overlaps",
			a:    window("2026-09-10", "18:00", "23:00"),
			b:    window("2026-09-10", "19:00", "22:00"),
			want: true,
		},
		{
			name: "adjacent windows do not overlap",
			a:    window("2026-09-10", "15:00", "18:30"),
			b:    window("2026-09-10", "18:30", "22:00"),
			want: false,
		},
		{
			name: "disjoint windows do not overlap",
			a:    window("2026-09-10", "12:00", "15:00"),
			b:    window("2026-09-10", "18:00", "22:00"),
			want: false,
		},
		{
			name: "midnight crossing overlaps early morning",
			a:    window("2026-09-10", "22:00", "02:00"),
			b:    window("2026-09-11", "01:00", "04:00"),
			want: true,
		},
		{
			name: "midnight crossing clear of next evening",
			a:    window("2026-09-10", "22:00", "02:00"),
			b:    window("2026-09-11", "18:00", "22:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeWindowWithin(t *testing.T) {
	operating, err := ResolveWindow("2026-09-10", "18:00", "02:00")
	if err != nil {
		t.Fatalf("failed to resolve operating window: %v", err)
	}

	tests := []struct {
		name      string
		startTime string
		endTime   string
		want      bool
	}{
		{"inside same evening", "19:00", "23:00", true},
		{"exact bounds", "18:00", "02:00", true},
		{"crossing midnight inside", "22:00", "01:30", true},
		{"starts before opening", "17:00", "21:00", false},
		{"ends after closing", "20:00", "03:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveWindow("2026-09-10", tt.startTime, tt.endTime)
			if err != nil {
				t.Fatalf("failed to resolve window: %v", err)
			}
			if got := w.Within(operating); got != tt.want {
				t.Errorf("Within = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeWindowDuration(t *testing.T) {
	w, err := ResolveWindow("2026-09-10", "23:00", "02:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Duration(); got != 3*time.Hour {
		t.Errorf("duration = %s, want 3h", got)
	}
}

func TestRoomOperatingWindow(t *testing.T) {
	room := &Room{
		OpeningTime: "18:00",
		ClosingTime: "02:00",
		OpenDays:    AllWeekdays(),
	}

	w, err := room.OperatingWindow("2026-09-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Duration(); got != 8*time.Hour {
		t.Errorf("operating duration = %s, want 8h", got)
	}
}

func TestRoomOpenOn(t *testing.T) {
	room := &Room{OpenDays: []string{"FRIDAY", "SATURDAY"}}

	if !room.OpenOn(time.Friday) {
		t.Error("expected room open on Friday")
	}
	if room.OpenOn(time.Monday) {
		t.Error("expected room closed on Monday")
	}
}

func TestRoomFitsGroup(t *testing.T) {
	room := &Room{MinCapacity: 10, MaxCapacity: 20}

	tests := []struct {
		size int
		want bool
	}{
		{9, false},
		{10, true},
		{15, true},
		{20, true},
		{21, false},
	}

	for _, tt := range tests {
		if got := room.FitsGroup(tt.size); got != tt.want {
			t.Errorf("FitsGroup(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}
