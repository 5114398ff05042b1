package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"425", 42500, false},
		{"35.00", 3500, false},
		{"80,50", 8050, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"0", 0, true},
		{"-10", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1.2.3", 0, true},
	}
	for _, c := range cases {
		got, err := ParseDecimalToCents(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 42500}).String(); got != "$425.00" {
		t.Errorf("String() = %q, want $425.00", got)
	}
	if got := (Money{Cents: -1250}).String(); got != "-$12.50" {
		t.Errorf("String() = %q, want -$12.50", got)
	}
	if got := (Money{Cents: 5}).String(); got != "$0.05" {
		t.Errorf("String() = %q, want $0.05", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 42500, -16000, 1625001} {
		m := Money{Cents: cents}
		b, err := m.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var back Money
		if err := back.UnmarshalJSON(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back.Cents != cents {
			t.Errorf("round trip %d -> %s -> %d", cents, b, back.Cents)
		}
	}
}
