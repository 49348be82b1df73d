package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	coreseq "tourops/internal/core/sequence"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the counter table: one value per (prefix, day) key,
// incremented atomically under a mutex like the UPSERT does under row lock.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	failures int   // errors to inject before succeeding
	failWith error // defaults to a serialization failure
	calls    int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.failures > 0 {
		m.failures--
		if m.failWith != nil {
			return &mockRow{err: m.failWith}
		}
		return &mockRow{err: &pgconn.PgError{Code: "40001"}}
	}

	if m.counters == nil {
		m.counters = make(map[string]int64)
	}

	key := args[0].(string) + ":" + args[1].(string)
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestAllocate_Format(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.DefaultConfig("BK")
	day := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

	code, err := svc.Allocate(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "BK-20260314-0001" {
		t.Errorf("expected BK-20260314-0001, got %s", code)
	}

	code, err = svc.Allocate(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "BK-20260314-0002" {
		t.Errorf("expected BK-20260314-0002, got %s", code)
	}
}

func TestAllocate_DayScoping(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.DefaultConfig("BK")

	day1 := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)

	code1, err := svc.Allocate(ctx, cfg, day1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code2, err := svc.Allocate(ctx, cfg, day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Counters reset per day
	if code1 != "BK-20260314-0001" {
		t.Errorf("expected BK-20260314-0001, got %s", code1)
	}
	if code2 != "BK-20260315-0001" {
		t.Errorf("expected BK-20260315-0001, got %s", code2)
	}
}

func TestAllocate_PrefixIsolation(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	bk, err := svc.Allocate(ctx, coreseq.DefaultConfig("BK"), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vc, err := svc.Allocate(ctx, coreseq.DefaultConfig("VC"), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bk != "BK-20260314-0001" {
		t.Errorf("expected BK-20260314-0001, got %s", bk)
	}
	if vc != "VC-20260314-0001" {
		t.Errorf("expected VC-20260314-0001, got %s", vc)
	}
}

func TestAllocate_ConcurrentDistinct(t *testing.T) {
	q := &mockQuerier{counters: map[string]int64{"BK:20260314": 3}}
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.DefaultConfig("BK")
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	const workers = 2
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := svc.Allocate(ctx, cfg, day)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- code
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for code := range results {
		if seen[code] {
			t.Errorf("duplicate code allocated: %s", code)
		}
		seen[code] = true
	}

	// Counter started at 3, so the pair must be exactly {0004, 0005}
	if !seen["BK-20260314-0004"] || !seen["BK-20260314-0005"] {
		t.Errorf("expected codes 0004 and 0005, got %v", seen)
	}
}

func TestAllocate_RetriesSerializationFailure(t *testing.T) {
	q := &mockQuerier{failures: 2}
	svc := New(q)
	ctx := context.Background()

	code, err := svc.Allocate(ctx, coreseq.DefaultConfig("BK"), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if code != "BK-20260314-0001" {
		t.Errorf("expected BK-20260314-0001, got %s", code)
	}
}

func TestAllocate_RetriesDeadlock(t *testing.T) {
	q := &mockQuerier{failures: 1, failWith: &pgconn.PgError{Code: "40P01"}}
	svc := New(q)

	_, err := svc.Allocate(context.Background(), coreseq.DefaultConfig("BK"), time.Now())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestAllocate_PermanentErrorFailsFast(t *testing.T) {
	q := &mockQuerier{failures: 10, failWith: errors.New("relation does not exist")}
	svc := New(q)

	_, err := svc.Allocate(context.Background(), coreseq.DefaultConfig("BK"), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	// Only serialization failures and deadlocks are worth a second attempt.
	if q.calls != 1 {
		t.Errorf("expected a single attempt, got %d", q.calls)
	}
}

func TestAllocate_ExhaustedRetries(t *testing.T) {
	q := &mockQuerier{failures: 10}
	svc := New(q)
	ctx := context.Background()

	_, err := svc.Allocate(ctx, coreseq.DefaultConfig("BK"), time.Now())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if q.calls != 4 {
		t.Errorf("expected 4 attempts, got %d", q.calls)
	}
}

func TestPeek_NoCounter(t *testing.T) {
	q := &peekQuerier{}
	svc := New(q)

	val, err := svc.Peek(context.Background(), coreseq.DefaultConfig("BK"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 0 {
		t.Errorf("expected 0 for missing counter, got %d", val)
	}
}

type peekQuerier struct{}

func (p *peekQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	// Wrapped like a scan library would return it.
	return &mockRow{err: fmt.Errorf("scanning one: %w", pgx.ErrNoRows)}
}
