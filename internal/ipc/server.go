package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"logsnap/internal/daemon"
	"logsnap/internal/logging"
	"logsnap/internal/scan"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. shutdown is
// invoked when a client requests daemon stop.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger, shutdown func()) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx, shutdown: shutdown}
	if err := rpcServer.RegisterName("Logsnap", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logging.NewComponentLogger(logger, "ipc"),
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"),
				)
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the socket file manually before the next start"),
		)
	}
}

// service implements the RPC methods.
type service struct {
	daemon   *daemon.Daemon
	logger   *slog.Logger
	ctx      context.Context
	shutdown func()
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	*resp = StatusResponse{
		Running:      status.Running,
		State:        status.State,
		LastError:    status.LastError,
		LineCount:    status.LineCount,
		RefreshedAt:  status.RefreshedAt,
		Fraction:     status.Fraction,
		IntervalSecs: int(status.Interval.Seconds()),
		DatabasePath: status.DatabasePath,
		LockPath:     status.LockFilePath,
		PID:          status.PID,
	}
	return nil
}

func (s *service) Refresh(_ RefreshRequest, resp *RefreshResponse) error {
	lines, err := s.daemon.RefreshNow(s.ctx)
	if err != nil {
		return err
	}
	resp.Lines = toRecords(lines)
	return nil
}

func (s *service) Lines(req LinesRequest, resp *LinesResponse) error {
	switch req.Source {
	case "", "snapshot":
		lines := s.daemon.Snapshot()
		if req.Limit > 0 && len(lines) > req.Limit {
			lines = lines[:req.Limit]
		}
		resp.Lines = toRecords(lines)
		return nil
	case "store":
		lines, err := s.daemon.StoredLines(s.ctx, req.Limit)
		if err != nil {
			return err
		}
		resp.Lines = toRecords(lines)
		return nil
	default:
		return fmt.Errorf("unknown lines source %q", req.Source)
	}
}

func (s *service) Reload(_ ReloadRequest, resp *ReloadResponse) error {
	s.daemon.NotifyConfigChanged()
	resp.Accepted = true
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	if s.shutdown != nil {
		// Asynchronous so the response reaches the client before the
		// process begins tearing down.
		go s.shutdown()
		resp.Stopping = true
	}
	return nil
}

func toRecords(lines []scan.Line) []LineRecord {
	records := make([]LineRecord, len(lines))
	for i, line := range lines {
		records[i] = LineRecord{Index: line.Index, Text: line.Text}
	}
	return records
}
