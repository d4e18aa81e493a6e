package goThrottle

import (
	"context"
)

// RecordFailedLogin counts one failed authentication attempt against all
// three brute-force axes and reports whether any of them has now placed a
// block on the address. The report is informational: subsequent requests
// are denied by the block check in [Engine.Admit], not by this return
// value.
//
// Like Admit, this path fails open — a store outage records nothing and
// reports no block.
func (e *Engine) RecordFailedLogin(ctx context.Context, username, address string) bool {
	if !e.config.BruteForce.Enabled {
		return false
	}

	e.metrics.Inc(MetricFailedLoginRecorded)

	trip, err := e.bruteforce.RecordFailure(ctx, username, address)
	if err != nil {
		e.emitFailOpen(ctx, "brute_force", AdmitRequest{
			Category: "auth",
			Identity: ClientIdentity{Kind: IdentityIP, Address: address},
		}, err)
	}

	if trip.IP {
		e.metrics.Inc(MetricBruteForceIPTrip)
	}
	if trip.Username {
		e.metrics.Inc(MetricBruteForceUsernameTrip)
	}
	if trip.Combo {
		e.metrics.Inc(MetricBruteForceComboTrip)
	}

	if !trip.Any() {
		return false
	}

	e.metrics.Inc(MetricBlockApplied)
	if e.audit != nil {
		e.audit.Emit(ctx, AuditEvent{
			Timestamp: e.now().UTC(),
			EventType: auditEventBruteForceBlock,
			IP:        address,
			Username:  username,
			Metadata: map[string]string{
				"ip_axis":       boolString(trip.IP),
				"username_axis": boolString(trip.Username),
				"combo_axis":    boolString(trip.Combo),
			},
		})
	}

	return true
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
