package sim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kubeshield/audit-service/internal/event"
)

func countingSink(calls *atomic.Int64) Sink {
	return func(ev event.SecurityEvent, source string) event.StoredEvent {
		calls.Add(1)
		return event.StoredEvent{Source: source}
	}
}

func TestStartDisabled(t *testing.T) {
	var calls atomic.Int64
	g := New(countingSink(&calls), 10*time.Millisecond, false)

	g.Start()
	if g.IsRunning() {
		t.Error("disabled generator reported running after Start")
	}
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("disabled generator produced %d events", n)
	}
}

func TestStartStop(t *testing.T) {
	var calls atomic.Int64
	g := New(countingSink(&calls), 10*time.Millisecond, true)

	g.Start()
	if !g.IsRunning() {
		t.Fatal("generator not running after Start")
	}

	time.Sleep(60 * time.Millisecond)
	g.Stop()
	if g.IsRunning() {
		t.Error("generator still reports running after Stop")
	}

	n := calls.Load()
	if n == 0 {
		t.Fatal("generator produced no events while running")
	}

	// No further writes after Stop returns.
	time.Sleep(60 * time.Millisecond)
	if after := calls.Load(); after != n {
		t.Errorf("generator wrote %d events after Stop", after-n)
	}
}

func TestStartTwice(t *testing.T) {
	var calls atomic.Int64
	g := New(countingSink(&calls), time.Hour, true)
	defer g.Stop()

	g.Start()
	g.Start() // no-op
	if !g.IsRunning() {
		t.Fatal("generator not running")
	}

	// One emission on loop entry per running loop.
	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly 1 emission from a single loop, got %d", n)
	}
}

func TestStopNotRunning(t *testing.T) {
	var calls atomic.Int64
	g := New(countingSink(&calls), 10*time.Millisecond, true)
	g.Stop() // no-op, must not block or panic
}

func TestSinkPanicDoesNotKillLoop(t *testing.T) {
	var calls atomic.Int64
	sink := func(ev event.SecurityEvent, source string) event.StoredEvent {
		if calls.Add(1) == 1 {
			panic("sink failure")
		}
		return event.StoredEvent{}
	}
	g := New(sink, 10*time.Millisecond, true)

	g.Start()
	time.Sleep(60 * time.Millisecond)
	g.Stop()

	if n := calls.Load(); n < 2 {
		t.Errorf("loop did not survive a panicking sink: %d calls", n)
	}
}

func TestReconfigure(t *testing.T) {
	var calls atomic.Int64
	g := New(countingSink(&calls), 10*time.Millisecond, true)

	g.Start()
	g.Reconfigure(10*time.Millisecond, false)
	if g.IsRunning() {
		t.Error("generator running after reconfigure to disabled")
	}

	g.Reconfigure(10*time.Millisecond, true)
	if !g.IsRunning() {
		t.Error("generator not running after reconfigure to enabled")
	}
	g.Stop()
}

func TestSimulationSourceTag(t *testing.T) {
	var got atomic.Value
	sink := func(ev event.SecurityEvent, source string) event.StoredEvent {
		got.Store(source)
		return event.StoredEvent{}
	}
	g := New(sink, time.Hour, true)
	g.Start()
	time.Sleep(20 * time.Millisecond)
	g.Stop()

	if s, _ := got.Load().(string); s != event.SourceSimulation {
		t.Errorf("source = %q, want %q", s, event.SourceSimulation)
	}
}

func TestTemplateWeights(t *testing.T) {
	total := 0
	for _, tmpl := range templates {
		if tmpl.weight <= 0 {
			t.Errorf("template has non-positive weight %d", tmpl.weight)
		}
		total += tmpl.weight
	}
	if total != 100 {
		t.Errorf("weights sum to %d, want 100", total)
	}
}

func TestRandomEventFields(t *testing.T) {
	g := New(nil, time.Second, false)
	severities := map[string]bool{
		event.SeverityCritical: true,
		event.SeverityHigh:     true,
		event.SeverityMedium:   true,
	}
	actions := map[string]bool{
		event.ActionTerminated: true,
		event.ActionAudit:      true,
	}

	for i := 0; i < 200; i++ {
		ev := g.randomEvent()
		if ev.EventType == "" || ev.PodName == "" || ev.Namespace == "" ||
			ev.Reason == "" || ev.PolicyName == "" || ev.Description == "" {
			t.Fatalf("template produced event with empty required field: %+v", ev)
		}
		if !severities[ev.Severity] {
			t.Errorf("unexpected severity %q", ev.Severity)
		}
		if !actions[ev.Action] {
			t.Errorf("unexpected action %q", ev.Action)
		}
		if _, err := time.Parse(time.RFC3339, ev.Timestamp); err != nil {
			t.Errorf("timestamp %q is not RFC 3339: %v", ev.Timestamp, err)
		}
	}
}

func TestTemplatePolicies(t *testing.T) {
	g := New(nil, time.Second, false)
	cases := []struct {
		name     string
		generate func(*Generator) event.SecurityEvent
		typ      string
		severity string // empty = varies
		action   string // empty = varies
	}{
		{"crypto mining", (*Generator).cryptoMiningEvent, event.TypeCryptoMining, event.SeverityCritical, event.ActionTerminated},
		{"config drift", (*Generator).configDriftEvent, event.TypeConfigDrift, event.SeverityMedium, event.ActionAudit},
		{"egress", (*Generator).egressEvent, event.TypeUnauthorizedEgress, event.SeverityHigh, event.ActionAudit},
		{"registry", (*Generator).registryViolationEvent, event.TypeDisallowedRegistry, event.SeverityHigh, event.ActionTerminated},
		{"lateral movement", (*Generator).lateralMovementEvent, event.TypeLateralMovement, event.SeverityCritical, event.ActionAudit},
		{"privilege escalation", (*Generator).privilegeEscalationEvent, event.TypePrivilegeEscalation, event.SeverityCritical, event.ActionTerminated},
		{"cve", (*Generator).cveEvent, event.TypeCVEDetected, "", event.ActionAudit},
		{"privileged container", (*Generator).privilegedEvent, event.TypePrivilegedContainer, event.SeverityCritical, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				ev := tc.generate(g)
				if ev.EventType != tc.typ {
					t.Fatalf("event type = %q, want %q", ev.EventType, tc.typ)
				}
				if tc.severity != "" && ev.Severity != tc.severity {
					t.Fatalf("severity = %q, want %q", ev.Severity, tc.severity)
				}
				if tc.action != "" && ev.Action != tc.action {
					t.Fatalf("action = %q, want %q", ev.Action, tc.action)
				}
			}
		})
	}
}
