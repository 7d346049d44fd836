package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var SafeExitInst *SafeExit

func InitSafeExit(ctx context.Context, cancel context.CancelFunc) {
	SafeExitInst = &SafeExit{cancel: cancel}
	go SafeExitInst.ListenSignal(ctx)
}

// SafeExit runs the registered cleanups, most recent first, once.
type SafeExit struct {
	funcs  []func()
	mu     sync.Mutex
	once   sync.Once
	cancel context.CancelFunc
}

func (s *SafeExit) Register(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.funcs = append(s.funcs, f)
}

func (s *SafeExit) Exit() {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i := len(s.funcs) - 1; i >= 0; i-- {
			s.funcs[i]()
		}
	})
}

// ListenSignal cancels the run on the first termination signal.
func (s *SafeExit) ListenSignal(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)
	select {
	case sig := <-sigs:
		log.Warnf("收到系统信号 %s, 正在停止任务, 请稍后", sig)
		if s.cancel != nil {
			s.cancel()
		}
	case <-ctx.Done():
	}
}
