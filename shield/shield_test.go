package shield

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unkn0wn-root/syncache/codec"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memStore struct {
	m      map[string]memEntry
	getErr error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{m: make(map[string]memEntry)} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	e, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.m[key] = memEntry{v: value, exp: exp}
	return true, nil
}

func (s *memStore) Del(_ context.Context, key string) error { delete(s.m, key); return nil }
func (s *memStore) Close(_ context.Context) error           { return nil }

type report struct {
	Total int `json:"total"`
}

func TestWrapMissThenHit(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()

	var calls atomic.Int64
	inner := func(context.Context) (report, error) {
		calls.Add(1)
		return report{Total: 42}, nil
	}
	fetch := Wrap(inner, ms, codec.JSON[report]{}, "stats", time.Minute)

	// miss: upstream called, result stored
	v, err := fetch(ctx)
	if err != nil || v.Total != 42 {
		t.Fatalf("first fetch: v=%+v err=%v", v, err)
	}
	if _, ok := ms.m["stats"]; !ok {
		t.Fatalf("shield store not populated after miss")
	}

	// hit: upstream skipped
	v, err = fetch(ctx)
	if err != nil || v.Total != 42 {
		t.Fatalf("second fetch: v=%+v err=%v", v, err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("upstream called %d times, want 1", n)
	}
}

func TestWrapSelfHealsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	ms.m["stats"] = memEntry{v: []byte("junk written by someone else")}

	var calls atomic.Int64
	fetch := Wrap(func(context.Context) (report, error) {
		calls.Add(1)
		return report{Total: 7}, nil
	}, ms, codec.JSON[report]{}, "stats", time.Minute)

	v, err := fetch(ctx)
	if err != nil || v.Total != 7 {
		t.Fatalf("fetch through corrupt entry: v=%+v err=%v", v, err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("upstream called %d times, want 1", n)
	}
	// the corrupt entry was replaced with a valid frame
	v, err = fetch(ctx)
	if err != nil || v.Total != 7 {
		t.Fatalf("fetch after heal: v=%+v err=%v", v, err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("upstream called %d times after heal, want 1", n)
	}
}

func TestWrapStoreErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	ms.getErr = errors.New("backend gone")

	var calls atomic.Int64
	fetch := Wrap(func(context.Context) (report, error) {
		calls.Add(1)
		return report{Total: 1}, nil
	}, ms, codec.JSON[report]{}, "stats", time.Minute)

	v, err := fetch(ctx)
	if err != nil || v.Total != 1 {
		t.Fatalf("store errors must not fail the fetch: v=%+v err=%v", v, err)
	}
}

func TestWrapUpstreamErrorNotCached(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()

	cause := errors.New("upstream down")
	fetch := Wrap(func(context.Context) (report, error) {
		return report{}, cause
	}, ms, codec.JSON[report]{}, "stats", time.Minute)

	if _, err := fetch(ctx); !errors.Is(err, cause) {
		t.Fatalf("err = %v, want upstream cause", err)
	}
	if len(ms.m) != 0 {
		t.Fatalf("failed fetch must not populate the shield")
	}
}
