package actor

import (
	"context"
	"errors"
	"strings"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"

	"Warfront/internal/match/actors"
	"Warfront/internal/match/entity"
	"Warfront/internal/match/sim"
	"Warfront/internal/shared/actor/messages"
	"Warfront/internal/shared/transport"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 对外的对局生命周期 API。所有对 World 的修改都经由 manager 转发到对应 session actor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration

	// index 已知 session 的本地索引，Submit 走这里提前丢弃发往不存在 session 的指令
	mu    deadlock.RWMutex
	index map[entity.SessionID]struct{}
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
		index:   make(map[entity.SessionID]struct{}),
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// CreateWorld 创建一个 waiting 状态的新 session。
func (r *Runtime) CreateWorld(ctx context.Context) (entity.SessionID, error) {
	res, err := r.request(&messages.CreateSession{}, r.timeoutFromContext(ctx))
	if err != nil {
		return "", err
	}
	resp, err := expect[*messages.CreateSessionResp](res)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.index[resp.Session] = struct{}{}
	r.mu.Unlock()
	return resp.Session, nil
}

// AddPlayer 生成玩家 id 并加入 session，第二名玩家加入后自动开局。
func (r *Runtime) AddPlayer(ctx context.Context, sid entity.SessionID, name string) (*messages.JoinSessionResp, error) {
	res, err := r.request(&messages.JoinSession{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
		PlayerID:         NewPlayerID(),
		Name:             name,
	}, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return expect[*messages.JoinSessionResp](res)
}

func (r *Runtime) Start(ctx context.Context, sid entity.SessionID) error {
	res, err := r.request(&messages.StartSession{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
	}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	_, err = expect[*messages.Ack](res)
	return err
}

func (r *Runtime) Stop(ctx context.Context, sid entity.SessionID) error {
	res, err := r.request(&messages.StopSession{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
	}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	_, err = expect[*messages.Ack](res)
	return err
}

// Submit 投递玩家指令，不等待、不回报结果。
func (r *Runtime) Submit(sid entity.SessionID, pid entity.PlayerID, intent sim.Intent) {
	if r == nil || r.root == nil || !r.known(sid) {
		return
	}
	r.root.Send(r.manager, &messages.SubmitIntent{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
		PlayerID:         pid,
		Intent:           intent,
	})
}

func (r *Runtime) Snapshot(ctx context.Context, sid entity.SessionID) (*entity.Snapshot, error) {
	res, err := r.request(&messages.SnapshotRequest{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
	}, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	resp, err := expect[*messages.SnapshotResp](res)
	if err != nil {
		return nil, err
	}
	return resp.Snapshot, nil
}

// Subscribe sink 在 session actor 内被调用，每个 tick 一次，必须不阻塞。
func (r *Runtime) Subscribe(ctx context.Context, sid entity.SessionID, key string, sink messages.SnapshotSink) error {
	res, err := r.request(&messages.Subscribe{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
		Key:              key,
		Sink:             sink,
	}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	_, err = expect[*messages.Ack](res)
	return err
}

func (r *Runtime) Unsubscribe(sid entity.SessionID, key string) {
	if r == nil || r.root == nil || !r.known(sid) {
		return
	}
	r.root.Send(r.manager, &messages.Unsubscribe{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
		Key:              key,
	})
}

// Destroy 停止 session actor 并移除索引；进行中的对局按 stopped 归档。
func (r *Runtime) Destroy(ctx context.Context, sid entity.SessionID) error {
	r.mu.Lock()
	delete(r.index, sid)
	r.mu.Unlock()

	res, err := r.request(&messages.DestroySession{
		MatchBaseMessage: messages.MatchBaseMessage{Session: sid},
	}, r.timeoutFromContext(ctx))
	if err != nil {
		return err
	}
	_, err = expect[*messages.Ack](res)
	return err
}

func (r *Runtime) List(ctx context.Context) ([]entity.SessionID, error) {
	res, err := r.request(&messages.ListSessions{}, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	resp, err := expect[*messages.ListSessionsResp](res)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.index = make(map[entity.SessionID]struct{}, len(resp.Sessions))
	for _, sid := range resp.Sessions {
		r.index[sid] = struct{}{}
	}
	r.mu.Unlock()
	return resp.Sessions, nil
}

func (r *Runtime) known(sid entity.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[sid]
	return ok
}

func (r *Runtime) request(msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if r.manager == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(r.manager, msg, timeout)
	res, err := future.Result()
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// expect 把 actor 回包转成期望的类型；FailResp 转成 RuntimeError 并保留原始错误。
func expect[T any](res any) (T, error) {
	var zero T
	switch v := res.(type) {
	case T:
		return v, nil
	case *messages.FailResp:
		return zero, &RuntimeError{Code: v.Code, Message: v.Message, Cause: v.Err}
	}
	return zero, &RuntimeError{Code: transport.SystemError, Message: "unexpected actor response"}
}

func NewPlayerID() entity.PlayerID {
	return entity.PlayerID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
