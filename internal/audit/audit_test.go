package audit

import (
	"errors"
	"testing"
	"time"

	"go-cms-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	entries []*model.AuditLog
	err     error
}

func (r *fakeRecorder) Record(entry *model.AuditLog) error {
	r.entries = append(r.entries, entry)
	return r.err
}

type fakeLocator struct {
	location string
	delay    time.Duration
}

func (l *fakeLocator) Locate(ip string) string {
	time.Sleep(l.delay)
	return l.location
}

func TestRunRecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	a := NewAuditor(rec, &fakeLocator{location: "US-CA-SF"}, zap.NewNop())
	actor := Actor{Username: "alice", IP: "1.2.3.4"}

	err := a.Run(actor, "content", "create", "Create content", map[string]string{"title": "hello"}, func() error {
		return nil
	})
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, "content", entry.Module)
	assert.Equal(t, "create", entry.Action)
	assert.Equal(t, "alice", entry.Operator)
	assert.Equal(t, "1.2.3.4", entry.IP)
	assert.Equal(t, "US-CA-SF", entry.Location)
	assert.Equal(t, model.AuditSuccess, entry.Status)
	assert.JSONEq(t, `{"title":"hello"}`, entry.Params)
	assert.Empty(t, entry.ErrorMsg)
}

func TestRunRecordsFailureAndReturnsError(t *testing.T) {
	rec := &fakeRecorder{}
	a := NewAuditor(rec, &fakeLocator{location: "unknown"}, zap.NewNop())
	boom := errors.New("boom")

	err := a.Run(Actor{Username: "alice"}, "content", "review", "Review content", nil, func() error {
		return boom
	})
	// the wrapped error passes through untouched
	assert.ErrorIs(t, err, boom)

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, model.AuditFail, entry.Status)
	assert.Equal(t, "boom", entry.ErrorMsg)
}

func TestRunOneEntryPerCall(t *testing.T) {
	rec := &fakeRecorder{}
	a := NewAuditor(rec, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		_ = a.Run(Actor{Username: "alice"}, "role", "update", "Update role", nil, func() error { return nil })
	}
	assert.Len(t, rec.entries, 3)
}

func TestRunDurationExcludesGeoLookup(t *testing.T) {
	rec := &fakeRecorder{}
	a := NewAuditor(rec, &fakeLocator{location: "unknown", delay: 150 * time.Millisecond}, zap.NewNop())

	err := a.Run(Actor{Username: "alice", IP: "1.2.3.4"}, "content", "create", "Create content", nil, func() error {
		return nil
	})
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	// the entry times the operation, not the location lookup
	assert.Less(t, rec.entries[0].DurationMs, int64(150))
}

func TestRunRecordFailureDoesNotFailCall(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	a := NewAuditor(rec, nil, zap.NewNop())

	err := a.Run(Actor{Username: "alice"}, "user", "delete", "Delete users", nil, func() error { return nil })
	assert.NoError(t, err)
}

func TestRunAnonymousOperator(t *testing.T) {
	rec := &fakeRecorder{}
	a := NewAuditor(rec, nil, zap.NewNop())

	_ = a.Run(Actor{}, "auth", "login", "Login", nil, func() error { return errors.New("bad password") })

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "unknown", rec.entries[0].Operator)
	assert.Equal(t, unknownLocation, rec.entries[0].Location)
}

func TestNormalizeIP(t *testing.T) {
	assert.Equal(t, "9.9.9.9", NormalizeIP("9.9.9.9, 10.0.0.1", "1.1.1.1"))
	assert.Equal(t, "1.1.1.1", NormalizeIP("", "1.1.1.1"))
	assert.Equal(t, "127.0.0.1", NormalizeIP("", "::1"))
}
