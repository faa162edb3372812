package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options selects which profiles a session collects. An empty path disables
// the corresponding profile.
type Options struct {
	CPUPath   string
	MemPath   string
	TracePath string
}

func (o Options) enabled() bool {
	return o.CPUPath != "" || o.MemPath != "" || o.TracePath != ""
}

// Session owns the profilers enabled for one command run. The zero Session
// is inert and its Stop is a no-op.
type Session struct {
	cpu     *os.File
	trace   *os.File
	memPath string
	stopped bool
}

// Start enables the requested profilers. When any of them fails to start,
// the ones already running are unwound and an error is returned. A nil
// session is returned when opts requests nothing.
func Start(opts Options) (*Session, error) {
	if !opts.enabled() {
		return nil, nil
	}

	s := &Session{memPath: opts.MemPath}

	if opts.CPUPath != "" {
		f, err := os.Create(opts.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start cpu profile: %w", err)
		}
		s.cpu = f
	}

	if opts.TracePath != "" {
		f, err := os.Create(opts.TracePath)
		if err != nil {
			s.unwind()
			return nil, fmt.Errorf("create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.unwind()
			return nil, fmt.Errorf("start trace: %w", err)
		}
		s.trace = f
	}

	return s, nil
}

func (s *Session) unwind() {
	if s.cpu != nil {
		pprof.StopCPUProfile()
		_ = s.cpu.Close()
		s.cpu = nil
	}
}

// Stop stops the active profilers and, when requested, writes the heap
// profile. Calling Stop again, or on a nil session, does nothing.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error

	if s.trace != nil {
		trace.Stop()
		if err := s.trace.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace: %w", err))
		}
		s.trace = nil
	}

	if s.cpu != nil {
		pprof.StopCPUProfile()
		if err := s.cpu.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cpu profile: %w", err))
		}
		s.cpu = nil
	}

	if s.memPath != "" {
		if err := writeHeapProfile(s.memPath); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write heap profile: %w", err)
	}
	return f.Close()
}
