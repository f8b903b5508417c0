package interview

import "testing"

func TestInterviewIndex(t *testing.T) {
	t.Parallel()

	interviews := []Interview{
		{ID: 3, Role: "Backend"},
		{ID: 7, Role: "Frontend"},
		{ID: 11, Role: "Data"},
	}

	tests := []struct {
		name   string
		id     int
		expect int
	}{
		{name: "first", id: 3, expect: 0},
		{name: "middle", id: 7, expect: 1},
		{name: "last", id: 11, expect: 2},
		{name: "absent", id: 42, expect: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := interviewIndex(interviews, tt.id); got != tt.expect {
				t.Fatalf("expected index %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestInterviewIndexEmptySlice(t *testing.T) {
	if got := interviewIndex(nil, 1); got != -1 {
		t.Fatalf("expected -1 for empty slice, got %d", got)
	}
}
