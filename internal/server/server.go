// Package server implements the ledgerd transport: a TCP listener speaking
// one JSON object per line, with a goroutine per client connection.
//
// The transport is deliberately thin. It decodes one request, dispatches to
// the engine, and writes back exactly one response line; every failure is a
// structured response on the same connection, and only an undecodable line
// fails alone while the connection keeps reading.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bft-labs/ledgerd/internal/domain"
	"github.com/bft-labs/ledgerd/internal/ledger"
)

// maxLineBytes caps a single request line.
const maxLineBytes = 1 << 20

// DefaultShutdownTimeout is the maximum time Stop waits for connection
// workers to finish their current request.
const DefaultShutdownTimeout = 30 * time.Second

// Config holds transport settings.
type Config struct {
	// ListenAddr is the TCP address to listen on, e.g. "127.0.0.1:5000".
	ListenAddr string

	// ShutdownTimeout bounds the drain on Stop. Zero means
	// DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Server accepts client connections and drives the ledger engine.
type Server struct {
	cfg    Config
	engine *ledger.Engine
	logger zerolog.Logger

	mu    sync.Mutex
	state State
	ln    net.Listener

	wg           sync.WaitGroup
	shuttingDown atomic.Bool
	shutdownOnce sync.Once
	done         chan struct{}
}

// New creates a server for the given engine.
func New(cfg Config, engine *ledger.Engine, logger zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start binds the listener and begins accepting connections.
// Returns ErrAlreadyRunning if the server is not stopped.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStopped {
		return ErrAlreadyRunning
	}
	s.state = StateStarting

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		s.state = StateStopped
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	s.state = StateRunning
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	s.wg.Add(1)
	go s.acceptLoop(ctx)
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Done is closed once shutdown has been initiated, whether by Stop or by a
// client shutdown request.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Stop shuts the server down cooperatively: the listener stops admitting
// connections, existing connection loops exit after their current request,
// and a final snapshot is persisted. Returns ErrShutdownTimeout if workers
// do not drain within the configured timeout.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = StateStopping
	s.mu.Unlock()

	s.beginShutdown("Stop() called")

	err := s.waitWithTimeout(s.cfg.ShutdownTimeout)

	if snapErr := s.engine.SnapshotNow(context.Background()); snapErr != nil {
		s.logger.Error().Err(snapErr).Msg("final snapshot failed")
		if err == nil {
			err = snapErr
		}
	}

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	s.logger.Info().Msg("server stopped")
	return err
}

// beginShutdown flips the cooperative flag, closes the listener and signals
// Done. Safe to call from both Stop and the shutdown command path.
func (s *Server) beginShutdown(reason string) {
	s.shutdownOnce.Do(func() {
		s.shuttingDown.Store(true)
		s.mu.Lock()
		ln := s.ln
		s.mu.Unlock()
		if ln != nil {
			_ = ln.Close()
		}
		close(s.done)
		s.logger.Info().Str("reason", reason).Msg("shutdown initiated")
	})
}

func (s *Server) waitWithTimeout(timeout time.Duration) error {
	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-time.After(timeout):
		s.logger.Warn().Dur("timeout", timeout).Msg("shutdown timeout, abandoning workers")
		return ErrShutdownTimeout
	}
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.shuttingDown.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn().Err(err).Msg("accept failed")
			continue
		}
		s.wg.Add(1)
		go s.handleConn(ctx, conn)
	}
}

// handleConn serves one client: one decoded request per line, one encoded
// response line back. The loop exits when the client disconnects or after
// the current request once shutdown has been initiated.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	logger := s.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Debug().Msg("client connected")

	enc := json.NewEncoder(conn)
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		resp := s.dispatch(ctx, scanner.Bytes(), logger)
		if err := enc.Encode(resp); err != nil {
			logger.Warn().Err(err).Msg("write response failed")
			return
		}
		if s.shuttingDown.Load() {
			return
		}
	}
	if err := scanner.Err(); err != nil && !s.shuttingDown.Load() {
		logger.Debug().Err(err).Msg("client read failed")
	}
}

// dispatch decodes and executes one request. Panics and unexpected engine
// failures are converted to internal-error responses here; nothing inside
// the engine is allowed to take the process down.
func (s *Server) dispatch(ctx context.Context, line []byte, logger zerolog.Logger) (resp any) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Msg("request handler panicked")
			resp = domain.ErrorResponse{Error: fmt.Sprintf("internal: %v", p)}
		}
	}()

	req, err := domain.DecodeRequest(line)
	if err != nil {
		return domain.ErrorResponse{Error: err.Error()}
	}

	switch r := req.(type) {
	case domain.InitAccountsRequest:
		accounts, err := s.engine.InitAccounts(ctx, r.Accounts)
		if err != nil {
			return s.errorResponse(err, logger)
		}
		return domain.InitAccountsResponse{OK: true, Accounts: accounts}

	case domain.BalanceRequest:
		balance, err := s.engine.Balance(ctx, r.User)
		if err != nil {
			return s.errorResponse(err, logger)
		}
		return domain.BalanceResponse{OK: true, User: r.User, Balance: balance}

	case domain.DepositRequest:
		m, err := s.engine.Deposit(ctx, r.User, r.Amount, orFreshID(r.TxID))
		if err != nil {
			return s.errorResponse(err, logger)
		}
		if m.Duplicate {
			return domain.DuplicateResponse{OK: true, Duplicate: true}
		}
		return domain.MutationResponse{OK: true, Before: m.Before, After: m.After}

	case domain.WithdrawRequest:
		m, err := s.engine.Withdraw(ctx, r.User, r.Amount, orFreshID(r.TxID))
		if err != nil {
			return s.errorResponse(err, logger)
		}
		if m.Duplicate {
			return domain.DuplicateResponse{OK: true, Duplicate: true}
		}
		return domain.MutationResponse{OK: true, Before: m.Before, After: m.After}

	case domain.TransferRequest:
		m, err := s.engine.Transfer(ctx, r.From, r.To, r.Amount, orFreshID(r.TxID))
		if err != nil {
			return s.errorResponse(err, logger)
		}
		if m.Duplicate {
			return domain.DuplicateResponse{OK: true, Duplicate: true}
		}
		return domain.TransferResponse{OK: true, From: m.From, To: m.To}

	case domain.ShutdownRequest:
		s.beginShutdown("shutdown requested by client")
		return domain.ShutdownResponse{OK: true, Msg: "shutting down"}

	default:
		return domain.ErrorResponse{Error: fmt.Sprintf("unknown cmd '%s'", req.Cmd())}
	}
}

// errorResponse maps engine failures to wire responses. Expected domain
// errors pass through verbatim; anything else is an internal error.
func (s *Server) errorResponse(err error, logger zerolog.Logger) domain.ErrorResponse {
	var insufficient *domain.InsufficientFundsError
	if errors.As(err, &insufficient) {
		balance := insufficient.Balance
		return domain.ErrorResponse{Error: err.Error(), Balance: &balance}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrUnknownAccount):
		return domain.ErrorResponse{Error: err.Error()}
	}

	logger.Error().Err(err).Msg("operation failed")
	return domain.ErrorResponse{Error: fmt.Sprintf("internal: %v", err)}
}

// orFreshID fills a transport-generated transaction id when the request
// omitted one. An omitted id is always treated as a new transaction.
func orFreshID(txID string) string {
	if txID != "" {
		return txID
	}
	return uuid.NewString()
}
