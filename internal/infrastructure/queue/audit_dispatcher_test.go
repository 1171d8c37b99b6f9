package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (s *stubAuditRepo) Insert(_ context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func TestAuditDispatcher_PersistsInOrderPerRecord(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())
	d.Start(context.Background())

	results := []domain.MutationResult{domain.ResultDeclined, domain.ResultFailed, domain.ResultApplied}
	for _, r := range results {
		d.Record(domain.AuditEntry{ID: string(r), Op: domain.OpUpdate, Result: r, RecordID: 42})
		d.Record(domain.AuditEntry{ID: "other-" + string(r), Op: domain.OpDelete, Result: r, RecordID: 7})
	}
	d.Stop()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.entries) != 6 {
		t.Fatalf("expected 6 persisted entries, got %d", len(repo.entries))
	}
	var got []domain.MutationResult
	for _, e := range repo.entries {
		if e.RecordID == 42 {
			got = append(got, e.Result)
		}
	}
	for i := range results {
		if got[i] != results[i] {
			t.Fatalf("record 42 entries out of order: %v", got)
		}
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	d := newAuditDispatcher(1, 1, &stubAuditRepo{}, zerolog.Nop())
	before := testutil.ToFloat64(metrics.AuditDroppedTotal)

	d.Record(domain.AuditEntry{ID: "a", RecordID: 1})
	d.Record(domain.AuditEntry{ID: "b", RecordID: 1})

	if got := testutil.ToFloat64(metrics.AuditDroppedTotal) - before; got != 1 {
		t.Errorf("expected 1 dropped entry, got %v", got)
	}
	if len(d.workers[0]) != 1 {
		t.Errorf("expected first entry to stay queued, got %d", len(d.workers[0]))
	}
}

func TestAuditDispatcher_RecordAfterStop(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	before := testutil.ToFloat64(metrics.AuditDroppedTotal)
	d.Record(domain.AuditEntry{ID: "late", RecordID: 1})
	if got := testutil.ToFloat64(metrics.AuditDroppedTotal) - before; got != 1 {
		t.Errorf("expected late entry to be dropped, got %v", got)
	}
}

func TestAuditDispatcher_InsertFailureCounted(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	before := testutil.ToFloat64(metrics.AuditErrorsTotal)

	d.Start(context.Background())
	d.Record(domain.AuditEntry{ID: "x", RecordID: 9})
	d.Stop()

	if got := testutil.ToFloat64(metrics.AuditErrorsTotal) - before; got != 1 {
		t.Errorf("expected 1 persistence error, got %v", got)
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewAuditDispatcher(5, &stubAuditRepo{}, zerolog.Nop())
	for _, id := range []int64{0, 1, 42, -3, 1 << 40} {
		first := d.shardIndex(id)
		if first < 0 || first >= 5 {
			t.Fatalf("shard %d out of range for id %d", first, id)
		}
		if again := d.shardIndex(id); again != first {
			t.Errorf("shard for %d changed: %d then %d", id, first, again)
		}
	}
}
