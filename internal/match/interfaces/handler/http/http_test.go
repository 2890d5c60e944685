package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"Warfront/internal/match/actor"
	"Warfront/internal/match/actors"
	"Warfront/internal/match/entity"
	"Warfront/internal/match/infra/persistence/memory"
	"Warfront/internal/match/interfaces/handler"
	"Warfront/internal/match/sim"
	"Warfront/internal/shared/actor/messages"
	"Warfront/internal/shared/security"
	"Warfront/internal/shared/transport"
)

type fakeSessions struct {
	joinErr error
	joined  []string
	stopped []entity.SessionID
}

func (f *fakeSessions) CreateWorld(ctx context.Context) (entity.SessionID, error) {
	return "s-new", nil
}

func (f *fakeSessions) AddPlayer(ctx context.Context, sid entity.SessionID, name string) (*messages.JoinSessionResp, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	f.joined = append(f.joined, name)
	return &messages.JoinSessionResp{PlayerID: "p-1", Color: entity.ColorBlue, Status: entity.StatusWaiting}, nil
}

func (f *fakeSessions) Start(ctx context.Context, sid entity.SessionID) error { return nil }

func (f *fakeSessions) Stop(ctx context.Context, sid entity.SessionID) error {
	f.stopped = append(f.stopped, sid)
	return nil
}

func (f *fakeSessions) Destroy(ctx context.Context, sid entity.SessionID) error { return nil }

func (f *fakeSessions) Snapshot(ctx context.Context, sid entity.SessionID) (*entity.Snapshot, error) {
	if sid != "s-1" {
		return nil, &actor.RuntimeError{Code: transport.NotFound, Message: "session not found", Cause: actors.ErrSessionNotFound}
	}
	return &entity.Snapshot{ID: sid, Status: entity.StatusPlaying, Tick: 7}, nil
}

func (f *fakeSessions) List(ctx context.Context) ([]entity.SessionID, error) {
	return []entity.SessionID{"s-1"}, nil
}

func (f *fakeSessions) Submit(sid entity.SessionID, pid entity.PlayerID, intent sim.Intent) {}

func (f *fakeSessions) Subscribe(ctx context.Context, sid entity.SessionID, key string, sink messages.SnapshotSink) error {
	return nil
}

func (f *fakeSessions) Unsubscribe(sid entity.SessionID, key string) {}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newEngine(s handler.Sessions, matches *memory.MatchRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	NewHttpHandler(handler.NewArena(s, matches, time.Minute), nil).RegisterRoutes(e.Group(""))
	return e
}

func do(t *testing.T, e *gin.Engine, method, path, body string) envelope {
	t.Helper()
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("%s %s status=%d", method, path, rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestJoin_签发可解析的座位Token(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	fs := &fakeSessions{}
	e := newEngine(fs, nil)

	env := do(t, e, "POST", "/sessions/s-1/players", `{"name":"alice"}`)
	if env.Code != transport.OK {
		t.Fatalf("code=%d msg=%s", env.Code, env.Msg)
	}
	var resp struct {
		PlayerID string `json:"playerId"`
		Color    string `json:"color"`
		Token    string `json:"token"`
	}
	_ = json.Unmarshal(env.Data, &resp)
	claims, err := security.ParseSeat(resp.Token)
	if err != nil {
		t.Fatalf("parse seat: %v", err)
	}
	if claims.SessionID != "s-1" || claims.PlayerID != "p-1" {
		t.Fatalf("claims=%+v", claims)
	}
	if len(fs.joined) != 1 || fs.joined[0] != "alice" {
		t.Fatalf("joined=%v", fs.joined)
	}
}

func TestJoin_对局已满返回冲突码和业务信息(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	fs := &fakeSessions{joinErr: &actor.RuntimeError{Code: transport.Conflict, Message: "full", Cause: sim.ErrSessionFull}}
	e := newEngine(fs, nil)

	env := do(t, e, "POST", "/sessions/s-1/players", "")
	if env.Code != transport.Conflict {
		t.Fatalf("code=%d, want conflict", env.Code)
	}
	if env.Msg != "session already has two players" {
		t.Fatalf("msg=%q", env.Msg)
	}
}

func TestSnapshot_未知对局返回NotFound(t *testing.T) {
	e := newEngine(&fakeSessions{}, nil)
	if env := do(t, e, "GET", "/sessions/nope/snapshot", ""); env.Code != transport.NotFound {
		t.Fatalf("code=%d", env.Code)
	}
	env := do(t, e, "GET", "/sessions/s-1/snapshot", "")
	if env.Code != transport.OK || !strings.Contains(string(env.Data), `"tick":7`) {
		t.Fatalf("snapshot=%s", env.Data)
	}
}

func TestLifecycle_创建列表停止(t *testing.T) {
	fs := &fakeSessions{}
	e := newEngine(fs, nil)
	if env := do(t, e, "POST", "/sessions", ""); !strings.Contains(string(env.Data), "s-new") {
		t.Fatalf("create=%s", env.Data)
	}
	if env := do(t, e, "GET", "/sessions", ""); !strings.Contains(string(env.Data), "s-1") {
		t.Fatalf("list=%s", env.Data)
	}
	if env := do(t, e, "POST", "/sessions/s-1/stop", ""); env.Code != transport.OK {
		t.Fatalf("stop code=%d", env.Code)
	}
	if len(fs.stopped) != 1 || fs.stopped[0] != "s-1" {
		t.Fatalf("stopped=%v", fs.stopped)
	}
}

func TestMatches_读取归档并校验limit(t *testing.T) {
	repo := memory.NewMatchRepository()
	_ = repo.SaveMatch(context.Background(), &entity.MatchRecord{SessionID: "done", Winner: "p-1", Reason: sim.EndReasonHubDestroyed})
	e := newEngine(&fakeSessions{}, repo)

	env := do(t, e, "GET", "/matches?limit=5", "")
	if env.Code != transport.OK || !strings.Contains(string(env.Data), `"winner":"p-1"`) {
		t.Fatalf("matches=%s", env.Data)
	}
	if env := do(t, e, "GET", "/matches?limit=x", ""); env.Code != transport.InvalidParam {
		t.Fatalf("bad limit code=%d", env.Code)
	}
}
