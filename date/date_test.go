package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	got := New(2023, time.January, 32)
	if want := New(2023, time.February, 1); got != want {
		t.Errorf("New(2023, 1, 32) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2023-01-05", New(2023, time.January, 5), false},
		{"2023-1-5", New(2023, time.January, 5), false},
		{"05/01/2023", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddAndDaysUntil(t *testing.T) {
	d := New(2024, time.February, 20)
	if got, want := d.Add(10), New(2024, time.March, 1); got != want {
		t.Errorf("Add(10) = %v, want %v (leap year)", got, want)
	}
	if got := d.DaysUntil(d.Add(30)); got != 30 {
		t.Errorf("DaysUntil = %d, want 30", got)
	}
	if got := d.Add(30).DaysUntil(d); got != -30 {
		t.Errorf("DaysUntil = %d, want -30", got)
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2023, 1, 1), New(2023, 1, 2)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare is not consistent with Before/After")
	}
}

func TestJSON(t *testing.T) {
	in := New(2023, time.April, 6)
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2023-04-06"` {
		t.Errorf("Marshal = %s", b)
	}
	var out Date
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{From: New(2023, 1, 1), To: New(2023, 1, 31)}
	if !r.Contains(r.From) || !r.Contains(r.To) {
		t.Errorf("range boundaries must be included")
	}
	if r.Contains(New(2023, 2, 1)) || r.Contains(New(2022, 12, 31)) {
		t.Errorf("range must exclude outside dates")
	}
}
