package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"Warfront/internal/match/app/port"
	"Warfront/internal/match/entity"
	"Warfront/modules/kit/logx"
)

var ErrArchiveClosed = errors.New("archive writer closed")

const (
	defaultRetryDelay  = 200 * time.Millisecond
	defaultSaveTimeout = 5 * time.Second
)

// ArchiveDC 对局归档的异步写入器。session actor 只负责入队，写库在独立 goroutine 中完成；
// 同一 session 的记录以最后一次入队为准，写失败会重排并在 retryDelay 后重试。
type ArchiveDC struct {
	repo        port.MatchRepository
	log         logx.Logger
	retryDelay  time.Duration
	saveTimeout time.Duration
	onError     func(error)

	mu      sync.Mutex
	pending map[entity.SessionID]*entity.MatchRecord
	order   []entity.SessionID
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

type Option func(*ArchiveDC)

func WithRetryDelay(d time.Duration) Option {
	return func(a *ArchiveDC) {
		if d > 0 {
			a.retryDelay = d
		}
	}
}

func WithSaveTimeout(d time.Duration) Option {
	return func(a *ArchiveDC) {
		if d > 0 {
			a.saveTimeout = d
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(a *ArchiveDC) {
		if l != nil {
			a.log = l
		}
	}
}

// WithErrorHook 每次写库失败时回调，用于指标。
func WithErrorHook(fn func(error)) Option {
	return func(a *ArchiveDC) {
		a.onError = fn
	}
}

func NewArchiveDC(repo port.MatchRepository, opts ...Option) *ArchiveDC {
	d := &ArchiveDC{
		repo:        repo,
		log:         logx.NewZapLogger(nil),
		retryDelay:  defaultRetryDelay,
		saveTimeout: defaultSaveTimeout,
		pending:     make(map[entity.SessionID]*entity.MatchRecord),
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.writerLoop()
	return d
}

// Enqueue 不阻塞。关闭后入队的记录被丢弃。
func (d *ArchiveDC) Enqueue(rec *entity.MatchRecord) error {
	if rec == nil {
		return nil
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrArchiveClosed
	}
	d.put(rec)
	d.mu.Unlock()

	d.signal()
	return nil
}

func (d *ArchiveDC) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// Close 停止接收新记录并把队列中剩余的记录写完；ctx 到期则放弃等待。
func (d *ArchiveDC) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *ArchiveDC) put(rec *entity.MatchRecord) {
	if _, ok := d.pending[rec.SessionID]; !ok {
		d.order = append(d.order, rec.SessionID)
	}
	d.pending[rec.SessionID] = rec
}

func (d *ArchiveDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ArchiveDC) popPending() *entity.MatchRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.order) == 0 {
		return nil
	}
	sid := d.order[0]
	d.order = d.order[1:]
	rec := d.pending[sid]
	delete(d.pending, sid)
	return rec
}

func (d *ArchiveDC) requeueOnError(rec *entity.MatchRecord) {
	d.mu.Lock()
	// 失败期间同一 session 有新记录入队时保留新的
	if _, newer := d.pending[rec.SessionID]; !newer {
		d.put(rec)
	}
	d.mu.Unlock()
}

func (d *ArchiveDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			if !d.consumePending() {
				return
			}
		case <-d.stop:
			d.drain()
			return
		}
	}
}

// consumePending 写到队列为空；收到 stop 时返回 false。
func (d *ArchiveDC) consumePending() bool {
	for {
		rec := d.popPending()
		if rec == nil {
			return true
		}
		if err := d.save(rec); err != nil {
			d.requeueOnError(rec)
			select {
			case <-time.After(d.retryDelay):
			case <-d.stop:
				d.drain()
				return false
			}
		}
	}
}

// drain 关闭时每条记录只再尝试一次。
func (d *ArchiveDC) drain() {
	for {
		rec := d.popPending()
		if rec == nil {
			return
		}
		_ = d.save(rec)
	}
}

func (d *ArchiveDC) save(rec *entity.MatchRecord) error {
	if d.repo == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.saveTimeout)
	defer cancel()
	err := d.repo.SaveMatch(ctx, rec)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, d.log, logx.NewSysLog("archive_save", err),
			zap.String("session_id", string(rec.SessionID)),
		)
		if d.onError != nil {
			d.onError(err)
		}
		return err
	}
	d.log.Info("match archived",
		zap.String("session_id", string(rec.SessionID)),
		zap.String("winner", string(rec.Winner)),
		zap.String("reason", rec.Reason),
	)
	return nil
}
