package goThrottle

import (
	"context"
	"testing"
)

func TestEffectiveLimitFloorsAndClamps(t *testing.T) {
	cases := []struct {
		requests   int
		multiplier float64
		want       int
	}{
		{100, 1.0, 100},
		{100, 2.0, 200},
		{5, 3.0, 15},
		{5, 0.5, 2},   // floor, not round
		{3, 0.5, 1},   // floor(1.5)
		{1, 0.5, 1},   // clamped to the 1-request floor
		{1, 0.1, 1},
		{7, 1.5, 10},  // floor(10.5)
	}

	for _, tc := range cases {
		if got := effectiveLimit(tc.requests, tc.multiplier); got != tc.want {
			t.Errorf("effectiveLimit(%d, %v): expected %d, got %d", tc.requests, tc.multiplier, tc.want, got)
		}
	}
}

func TestResolveMultiplierIgnoresCorruptStoredRecord(t *testing.T) {
	engine, mr, cleanup := newTestEngine(t, DefaultConfig())
	defer cleanup()
	fixClock(engine)

	if err := mr.Set("gt:um:u1", "not json"); err != nil {
		t.Fatalf("seeding corrupt record: %v", err)
	}

	d := engine.Admit(context.Background(), AdmitRequest{Category: "auth", Identity: userIdentity("u1", "doctor")})
	if d.Limit != 10 { // role multiplier applies, corrupt record is ignored
		t.Fatalf("expected the role-scaled limit 10, got %d", d.Limit)
	}
}

func TestResolvePolicyIgnoresCorruptOverride(t *testing.T) {
	engine, mr, cleanup := newTestEngine(t, DefaultConfig())
	defer cleanup()
	fixClock(engine)

	if err := mr.Set("gt:ovr:api", `{"requests":-3,"window_seconds":0}`); err != nil {
		t.Fatalf("seeding corrupt override: %v", err)
	}

	d := engine.Admit(context.Background(), AdmitRequest{Category: "api", Identity: userIdentity("u1", "user")})
	if d.Limit != 100 {
		t.Fatalf("expected the built-in policy, got limit %d", d.Limit)
	}
}
