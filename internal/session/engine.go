package session

import (
	"context"
	"time"

	"vecviz/internal/logging"
	"vecviz/internal/scene"
)

type stateReq struct {
	reply chan State
}

type doReq struct {
	cmd   Command
	reply chan doResult
}

type doResult struct {
	st  State
	err error
}

type sceneReq struct {
	reply chan *scene.Scene
}

type subscribeReq struct {
	ch chan State
}

// Engine serialises access to a Session. After NewEngine the Session
// belongs to the Run goroutine and must not be touched elsewhere.
type Engine struct {
	s *Session

	// Actor channels
	cmdCh       chan Command
	doCh        chan doReq
	stateReqCh  chan stateReq
	sceneReqCh  chan sceneReq
	subscribeCh chan subscribeReq
	unsubCh     chan chan State
}

func NewEngine(s *Session) *Engine {
	return &Engine{
		s:           s,
		cmdCh:       make(chan Command, 128),
		doCh:        make(chan doReq, 32),
		stateReqCh:  make(chan stateReq, 32),
		sceneReqCh:  make(chan sceneReq, 32),
		subscribeCh: make(chan subscribeReq, 32),
		unsubCh:     make(chan chan State, 32),
	}
}

// Submit queues a command without waiting for its result.
func (e *Engine) Submit(cmd Command) {
	select {
	case e.cmdCh <- cmd:
	default:
		logging.Logger().Warn("engine overloaded, command dropped", "type", cmd.Type())
	}
}

// Do applies cmd and returns the resulting state together with the
// command's error (for example an *input.Error from a rejected transform).
func (e *Engine) Do(ctx context.Context, cmd Command) (State, error) {
	req := doReq{cmd: cmd, reply: make(chan doResult, 1)}
	select {
	case e.doCh <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.st, r.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (e *Engine) GetState(ctx context.Context) (State, error) {
	req := stateReq{reply: make(chan State, 1)}
	select {
	case e.stateReqCh <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// GetScene returns the current scene. Scenes are never modified after a
// rebuild, so the result may be read from any goroutine.
func (e *Engine) GetScene(ctx context.Context) (*scene.Scene, error) {
	req := sceneReq{reply: make(chan *scene.Scene, 1)}
	select {
	case e.sceneReqCh <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case sc := <-req.reply:
		return sc, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe returns a channel receiving a snapshot after every change,
// starting with the current state.
func (e *Engine) Subscribe(ctx context.Context) (<-chan State, func()) {
	ch := make(chan State, 32)

	select {
	case e.subscribeCh <- subscribeReq{ch: ch}:
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}

	unsub := func() {
		select {
		case e.unsubCh <- ch:
		default:
		}
	}
	return ch, unsub
}

// Run owns the session until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	subs := map[chan State]struct{}{}

	publish := func(st State) {
		for ch := range subs {
			select {
			case ch <- st:
			default:
				// slow subscriber -> drop snapshot
			}
		}
	}

	// dismissal fires once the newest notification expires; a newer
	// notification resets it
	dismiss := time.NewTimer(time.Hour)
	dismiss.Stop()
	defer dismiss.Stop()
	var lastSeq uint64

	apply := func(cmd Command) (State, error) {
		err := e.s.Apply(cmd)
		if n, ok := e.s.Notification(); ok && n.Seq != lastSeq {
			lastSeq = n.Seq
			dismiss.Reset(e.s.NotifyLifetime())
		}
		st := e.s.Snapshot()
		publish(st)
		return st, err
	}

	for {
		select {
		case <-ctx.Done():
			for ch := range subs {
				close(ch)
			}
			return nil

		case req := <-e.subscribeCh:
			subs[req.ch] = struct{}{}
			req.ch <- e.s.Snapshot()

		case ch := <-e.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case req := <-e.stateReqCh:
			req.reply <- e.s.Snapshot()

		case req := <-e.sceneReqCh:
			req.reply <- e.s.Scene()

		case req := <-e.doCh:
			st, err := apply(req.cmd)
			req.reply <- doResult{st: st, err: err}

		case cmd := <-e.cmdCh:
			if _, err := apply(cmd); err != nil {
				logging.Logger().Debug("command failed", "type", cmd.Type(), "err", err)
			}

		case <-dismiss.C:
			publish(e.s.Snapshot())
		}
	}
}
