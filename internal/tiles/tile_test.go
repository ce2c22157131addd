package tiles

import "testing"

func TestTileCode(t *testing.T) {
	tests := []struct {
		name     string
		tile     Tile
		expected string
	}{
		{"one man", Tile{Suit: SuitMan, Rank: 1}, "1m"},
		{"nine pin", Tile{Suit: SuitPin, Rank: 9}, "9p"},
		{"five sou", Tile{Suit: SuitSou, Rank: 5}, "5s"},
		{"red five sou", Tile{Suit: SuitSou, Rank: 5, Red: true}, "0s"},
		{"red dragon", Tile{Suit: SuitHonor, Rank: 7}, "7z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tile.Code(); got != tc.expected {
				t.Errorf("Code() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		code    string
		kind    Kind
		red     bool
		wantErr bool
	}{
		{"1m", Kind{SuitMan, 1}, false, false},
		{"0p", Kind{SuitPin, 5}, true, false},
		{"7z", Kind{SuitHonor, 7}, false, false},
		{"8z", Kind{}, false, true},
		{"0z", Kind{}, false, true},
		{"5x", Kind{}, false, true},
		{"m5", Kind{}, false, true},
		{"10m", Kind{}, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			kind, red, err := ParseCode(tc.code)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseCode(%q) expected error", tc.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCode(%q) failed: %v", tc.code, err)
			}
			if kind != tc.kind || red != tc.red {
				t.Errorf("ParseCode(%q) = %v,%v, expected %v,%v", tc.code, kind, red, tc.kind, tc.red)
			}
		})
	}
}

func TestSortCanonicalOrder(t *testing.T) {
	hand := []Tile{
		{ID: 1, Suit: SuitHonor, Rank: 1},
		{ID: 2, Suit: SuitSou, Rank: 3},
		{ID: 3, Suit: SuitMan, Rank: 9},
		{ID: 4, Suit: SuitPin, Rank: 2},
		{ID: 5, Suit: SuitMan, Rank: 5, Red: true},
		{ID: 6, Suit: SuitMan, Rank: 1},
	}
	Sort(hand)

	expected := []string{"0m", "1m", "9m", "2p", "3s", "1z"}
	for i, code := range Codes(hand) {
		if code != expected[i] {
			t.Errorf("position %d = %s, expected %s", i, code, expected[i])
		}
	}
}

func TestSortIdempotentAndStable(t *testing.T) {
	ts := NewShuffled(7)
	hand := ts.LiveWall()[:14]

	Sort(hand)
	once := append([]Tile(nil), hand...)
	Sort(hand)

	for i := range hand {
		if hand[i] != once[i] {
			t.Fatalf("second sort changed position %d: %v -> %v", i, once[i], hand[i])
		}
	}
	if !IsSorted(hand) {
		t.Error("hand should be sorted")
	}

	// Equal kinds keep insertion order
	dup := []Tile{
		{ID: 10, Suit: SuitPin, Rank: 3},
		{ID: 2, Suit: SuitMan, Rank: 1},
		{ID: 11, Suit: SuitPin, Rank: 3},
	}
	Sort(dup)
	if dup[1].ID != 10 || dup[2].ID != 11 {
		t.Errorf("stable sort broken: got IDs %d,%d, expected 10,11", dup[1].ID, dup[2].ID)
	}
}
