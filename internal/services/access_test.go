package services

import "testing"

func TestCanBrowseListing(t *testing.T) {
	cases := []struct {
		member  bool
		hasPaid bool
		want    bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}

	var policy AccessPolicy
	for _, c := range cases {
		got := policy.CanBrowseListing(c.member, c.hasPaid)
		if got != c.want {
			t.Errorf("CanBrowseListing(%v, %v) = %v, want %v", c.member, c.hasPaid, got, c.want)
		}
	}
}
