package catalog

import "testing"

func TestReleaseUnix(t *testing.T) {
	tests := []struct {
		release string
		want    int64
	}{
		{"2023-03-01T10:00:00", 1677664800},
		{"2023-03-01 10:00:00", 1677664800},
		{"2023-03-01 10:00", 1677664800},
		{"", 0},
		{"not a date", 0},
	}

	for _, tt := range tests {
		m := Map{Release: tt.release}
		if got := m.ReleaseUnix(); got != tt.want {
			t.Errorf("ReleaseUnix(%q) = %d, want %d", tt.release, got, tt.want)
		}
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		release string
		want    int
	}{
		{"2023-03-01 10:00", 2023},
		{"1999-12-31 23:59", 1999},
		{"20", 0},
		{"", 0},
		{"soon", 0},
	}

	for _, tt := range tests {
		m := Map{Release: tt.release}
		if got := m.ReleaseYear(); got != tt.want {
			t.Errorf("ReleaseYear(%q) = %d, want %d", tt.release, got, tt.want)
		}
	}
}

func TestMappers(t *testing.T) {
	tests := []struct {
		mapper string
		want   []string
	}{
		{"Ivy", []string{"Ivy"}},
		{"Ivy & Juno", []string{"Ivy", "Juno"}},
		{"Ivy, Juno & Kai", []string{"Ivy", "Juno", "Kai"}},
		{"", nil},
	}

	for _, tt := range tests {
		m := Map{Mapper: tt.mapper}
		got := m.Mappers()
		if len(got) != len(tt.want) {
			t.Errorf("Mappers(%q) = %v, want %v", tt.mapper, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("Mappers(%q)[%d] = %q, want %q", tt.mapper, i, got[i], tt.want[i])
			}
		}
	}
}

func TestHasBonus(t *testing.T) {
	with := Map{Tiles: []string{"TELE", BonusTile}}
	without := Map{Tiles: []string{"TELE"}}

	if !with.HasBonus() {
		t.Error("expected bonus flag")
	}
	if without.HasBonus() {
		t.Error("unexpected bonus flag")
	}
}

func TestLookup(t *testing.T) {
	maps := []Map{{Name: "Sunny", Points: 5}, {Name: "Luna", Points: 20}}

	index := Lookup(maps)
	if len(index) != 2 {
		t.Fatalf("index has %d entries, want 2", len(index))
	}
	if index["Luna"].Points != 20 {
		t.Errorf("Luna = %+v, want 20 points", index["Luna"])
	}
}
