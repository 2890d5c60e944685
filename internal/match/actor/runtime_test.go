package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Warfront/internal/match/actors"
	"Warfront/internal/match/entity"
	"Warfront/internal/match/rules"
	"Warfront/internal/match/sim"
	"Warfront/internal/shared/transport"
)

type fakeArchive struct {
	mu   sync.Mutex
	recs []*entity.MatchRecord
}

func (f *fakeArchive) Enqueue(rec *entity.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeArchive) records() []*entity.MatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.MatchRecord(nil), f.recs...)
}

func newRuntime(t *testing.T, maxSessions int) (*Runtime, *fakeArchive) {
	t.Helper()
	return newRuntimeWithTick(t, maxSessions, 10*time.Millisecond)
}

func newRuntimeWithTick(t *testing.T, maxSessions int, tick time.Duration) (*Runtime, *fakeArchive) {
	t.Helper()
	r := rules.Default()
	r.TickInterval = tick
	archive := &fakeArchive{}
	rt := NewRuntime(actors.Deps{Rules: r, Archive: archive, MaxSessions: maxSessions}, time.Second)
	t.Cleanup(rt.Shutdown)
	return rt, archive
}

func playingSession(t *testing.T, rt *Runtime) (entity.SessionID, entity.PlayerID, entity.PlayerID) {
	t.Helper()
	ctx := context.Background()
	sid, err := rt.CreateWorld(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	a, err := rt.AddPlayer(ctx, sid, "a")
	if err != nil {
		t.Fatalf("join a: %v", err)
	}
	if a.Color != entity.ColorBlue || a.Status != entity.StatusWaiting {
		t.Fatalf("first join=%+v", a)
	}
	b, err := rt.AddPlayer(ctx, sid, "b")
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	if b.Color != entity.ColorRed || b.Status != entity.StatusPlaying {
		t.Fatalf("second join=%+v", b)
	}
	return sid, a.PlayerID, b.PlayerID
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRuntime_第二名玩家加入后开始推进(t *testing.T) {
	rt, _ := newRuntime(t, 0)
	sid, _, _ := playingSession(t, rt)

	eventually(t, "ticks to advance", func() bool {
		snap, err := rt.Snapshot(context.Background(), sid)
		return err == nil && snap.Tick >= 3
	})
}

func TestRuntime_第三人加入返回冲突(t *testing.T) {
	rt, _ := newRuntime(t, 0)
	sid, _, _ := playingSession(t, rt)

	_, err := rt.AddPlayer(context.Background(), sid, "c")
	if !errors.Is(err, sim.ErrSessionFull) {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}
	if CodeFromError(err) != transport.Conflict {
		t.Fatalf("code=%d, want conflict", CodeFromError(err))
	}
}

func TestRuntime_未知session返回NotFound(t *testing.T) {
	rt, _ := newRuntime(t, 0)
	_, err := rt.Snapshot(context.Background(), "missing")
	if !errors.Is(err, actors.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if CodeFromError(err) != transport.NotFound {
		t.Fatalf("code=%d", CodeFromError(err))
	}
	// 发往不存在的 session 直接丢弃
	rt.Submit("missing", "p", sim.Move{})
}

func TestRuntime_Start人数不足与幂等(t *testing.T) {
	rt, _ := newRuntime(t, 0)
	ctx := context.Background()
	sid, _ := rt.CreateWorld(ctx)
	_, _ = rt.AddPlayer(ctx, sid, "a")
	if err := rt.Start(ctx, sid); !errors.Is(err, sim.ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
	_, _ = rt.AddPlayer(ctx, sid, "b")
	if err := rt.Start(ctx, sid); err != nil {
		t.Fatalf("start on playing session should succeed, got %v", err)
	}
}

func TestRuntime_Submit移动指令生效(t *testing.T) {
	rt, _ := newRuntime(t, 0)
	sid, blue, _ := playingSession(t, rt)

	snap, err := rt.Snapshot(context.Background(), sid)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	var builder entity.EntityView
	for _, e := range snap.Entities {
		if e.PlayerID == blue && e.Category == "unit" {
			builder = e
		}
	}
	if builder.ID == 0 {
		t.Fatalf("builder not found in %+v", snap.Entities)
	}
	dest := entity.Position{X: builder.Position.X + 30, Y: builder.Position.Y}
	rt.Submit(sid, blue, sim.Move{EntityIDs: []entity.EntityID{builder.ID}, Target: &dest})

	eventually(t, "builder to arrive", func() bool {
		s, err := rt.Snapshot(context.Background(), sid)
		if err != nil {
			return false
		}
		return s.Entities[builder.ID].Position == dest
	})
}

func TestRuntime_订阅者每tick收到快照(t *testing.T) {
	rt, _ := newRuntime(t, 0)
	sid, _, _ := playingSession(t, rt)

	got := make(chan uint64, 64)
	err := rt.Subscribe(context.Background(), sid, "conn-1", func(s *entity.Snapshot) bool {
		select {
		case got <- s.Tick:
		default:
		}
		return true
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	var last uint64
	for i := 0; i < 3; i++ {
		select {
		case tick := <-got:
			if i > 0 && tick <= last {
				t.Fatalf("tick went backwards: %d after %d", tick, last)
			}
			last = tick
		case <-time.After(time.Second):
			t.Fatalf("no snapshot received")
		}
	}
	rt.Unsubscribe(sid, "conn-1")
}

func TestRuntime_Stop后归档且不再推进(t *testing.T) {
	rt, archive := newRuntime(t, 0)
	sid, blue, red := playingSession(t, rt)
	ctx := context.Background()

	if err := rt.Stop(ctx, sid); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := rt.Stop(ctx, sid); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	snap, _ := rt.Snapshot(ctx, sid)
	if snap.Status != entity.StatusEnded {
		t.Fatalf("status=%s", snap.Status)
	}
	at := snap.Tick
	time.Sleep(50 * time.Millisecond)
	snap, _ = rt.Snapshot(ctx, sid)
	if snap.Tick != at {
		t.Fatalf("tick advanced after stop: %d -> %d", at, snap.Tick)
	}

	recs := archive.records()
	if len(recs) != 1 {
		t.Fatalf("records=%d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.SessionID != sid || rec.Reason != sim.EndReasonStopped || rec.Winner != "" {
		t.Fatalf("record=%+v", rec)
	}
	if len(rec.Players) != 2 || rec.Players[0].ID != blue || rec.Players[1].ID != red {
		t.Fatalf("players=%+v", rec.Players)
	}
}

func TestRuntime_Destroy后从列表移除(t *testing.T) {
	rt, archive := newRuntime(t, 0)
	ctx := context.Background()
	waiting, err := rt.CreateWorld(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	playing, _, _ := playingSession(t, rt)

	ids, _ := rt.List(ctx)
	if len(ids) != 2 {
		t.Fatalf("sessions=%v", ids)
	}
	if err := rt.Destroy(ctx, waiting); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if err := rt.Destroy(ctx, playing); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	ids, _ = rt.List(ctx)
	if len(ids) != 0 {
		t.Fatalf("sessions after destroy=%v", ids)
	}
	if _, err := rt.Snapshot(ctx, playing); CodeFromError(err) != transport.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := rt.Destroy(ctx, playing); !errors.Is(err, actors.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	// 只有开过局的 session 会归档
	eventually(t, "archive of the destroyed match", func() bool {
		recs := archive.records()
		return len(recs) == 1 && recs[0].SessionID == playing
	})
}

func TestRuntime_超过session上限(t *testing.T) {
	rt, _ := newRuntime(t, 1)
	ctx := context.Background()
	if _, err := rt.CreateWorld(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rt.CreateWorld(ctx); !errors.Is(err, actors.ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
}

func TestCodeFromError(t *testing.T) {
	if CodeFromError(nil) != transport.OK {
		t.Fatalf("nil should be OK")
	}
	if CodeFromError(errors.New("x")) != transport.SystemError {
		t.Fatalf("plain error should be system error")
	}
	if CodeFromError(&RuntimeError{Code: transport.NotFound}) != transport.NotFound {
		t.Fatalf("runtime error code lost")
	}
}

func TestRuntime_指令生效后立即推送快照(t *testing.T) {
	rt, _ := newRuntimeWithTick(t, 0, time.Hour)
	sid, blue, _ := playingSession(t, rt)

	got := make(chan *entity.Snapshot, 16)
	err := rt.Subscribe(context.Background(), sid, "conn-1", func(s *entity.Snapshot) bool {
		select {
		case got <- s:
		default:
		}
		return true
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	var first *entity.Snapshot
	select {
	case first = <-got:
	case <-time.After(time.Second):
		t.Fatalf("no snapshot on subscribe")
	}

	var builder entity.EntityView
	for _, e := range first.Entities {
		if e.PlayerID == blue && e.Category == "unit" {
			builder = e
		}
	}
	if builder.ID == 0 {
		t.Fatalf("builder not found")
	}
	dest := entity.Position{X: builder.Position.X + 100, Y: builder.Position.Y}
	rt.Submit(sid, blue, sim.Move{EntityIDs: []entity.EntityID{builder.ID}, Target: &dest})

	select {
	case s := <-got:
		if s.Tick != first.Tick {
			t.Fatalf("snapshot came from a tick: %d -> %d", first.Tick, s.Tick)
		}
		if v := s.Entities[builder.ID]; v.State != entity.StateMoving {
			t.Fatalf("builder state=%s, want moving", v.State)
		}
	case <-time.After(time.Second):
		t.Fatalf("accepted intent did not push a snapshot")
	}

	// 被拒绝的指令不推送
	rt.Submit(sid, blue, sim.Move{EntityIDs: []entity.EntityID{builder.ID}})
	select {
	case <-got:
		t.Fatalf("rejected intent pushed a snapshot")
	case <-time.After(50 * time.Millisecond):
	}
}
