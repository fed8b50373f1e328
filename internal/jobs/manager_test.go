package jobs

import (
	"testing"

	"gameview-desktop/internal/domain"
)

// TestManagerLifecycle verifies normal progression to done state.
func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	if m.IsRunning() {
		t.Fatal("new manager should be idle")
	}

	if err := m.Start("job-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !m.IsRunning() {
		t.Fatal("expected running after start")
	}

	if err := m.Transition(domain.JobStatusDone); err != nil {
		t.Fatalf("transition to done: %v", err)
	}

	current := m.Current()
	if current.Status != domain.JobStatusDone {
		t.Fatalf("current status = %s, want done", current.Status)
	}
	if m.IsRunning() {
		t.Fatal("done job should not report running")
	}
}

// TestManagerRejectsSecondActiveJob checks the single-job guard.
func TestManagerRejectsSecondActiveJob(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Start("job-2"); err != ErrJobAlreadyRunning {
		t.Fatalf("second start error = %v, want %v", err, ErrJobAlreadyRunning)
	}
}

// TestManagerRejectsInvalidTransition checks state machine constraints.
func TestManagerRejectsInvalidTransition(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.JobStatusFailed); err != nil {
		t.Fatalf("transition to failed: %v", err)
	}
	if err := m.Transition(domain.JobStatusDone); err == nil {
		t.Fatal("expected terminal state to reject done transition")
	}
}

// TestManagerCancelRequiresRunningJob checks cancel guard and effect.
func TestManagerCancelRequiresRunningJob(t *testing.T) {
	m := NewManager()
	if err := m.Cancel(); err != ErrNoRunningJob {
		t.Fatalf("idle cancel error = %v, want %v", err, ErrNoRunningJob)
	}

	if err := m.Start("job-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if m.Current().Status != domain.JobStatusCancelled {
		t.Fatalf("status = %s, want cancelled", m.Current().Status)
	}

	if err := m.Cancel(); err != ErrNoRunningJob {
		t.Fatalf("second cancel error = %v, want %v", err, ErrNoRunningJob)
	}
}

// TestManagerRestartAfterTerminalState checks a new job can start.
func TestManagerRestartAfterTerminalState(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.JobStatusCancelled); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := m.Start("job-2"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if m.Current().ID != "job-2" {
		t.Fatalf("current id = %s, want job-2", m.Current().ID)
	}
}
