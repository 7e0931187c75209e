package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockPhraseChecker struct {
	err   error
	block bool
}

func (m *mockPhraseChecker) HealthCheck(ctx context.Context) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

// --- Tests ---

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		db         error
		phrases    *mockPhraseChecker
		wantStatus Status
		wantChecks map[string]CheckResult
	}{
		{
			name:       "all healthy",
			phrases:    &mockPhraseChecker{},
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{"database": CheckOK, "phrases": CheckOK},
		},
		{
			name:       "database down",
			db:         errors.New("conn refused"),
			phrases:    &mockPhraseChecker{},
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{"database": CheckError, "phrases": CheckOK},
		},
		{
			name:       "phrase extractor down",
			phrases:    &mockPhraseChecker{err: errors.New("401")},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{"database": CheckOK, "phrases": CheckError},
		},
		{
			name:       "both down",
			db:         errors.New("conn refused"),
			phrases:    &mockPhraseChecker{err: errors.New("401")},
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{"database": CheckError, "phrases": CheckError},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tc.db}, tc.phrases).Check(context.Background())
			if r.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tc.wantStatus)
			}
			for k, v := range tc.wantChecks {
				if r.Checks[k] != v {
					t.Errorf("checks[%s] = %q, want %q", k, r.Checks[k], v)
				}
			}
		})
	}
}

func TestCheck_NoPhraseExtractor(t *testing.T) {
	r := New(&mockDBPinger{}, nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["phrases"]; ok {
		t.Error("phrases check should be absent")
	}
}

func TestCheck_SlowComponentTimesOut(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockPhraseChecker{block: true})
	svc.timeout = 20 * time.Millisecond

	start := time.Now()
	r := svc.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check did not respect timeout")
	}
	if r.Checks["phrases"] != CheckError || r.Status != Degraded {
		t.Errorf("unexpected report %+v", r)
	}
}
