package harness

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tick-trader/infrastructure/logger"
)

// TickPath is the websocket endpoint.
const TickPath = "/tick"

// ConnObserver counts accepted connections; infrastructure/monitor implements it.
type ConnObserver interface {
	RecordWSConnection()
}

// WSServer 每个文本帧是一份快照，每个回复是一份结果；解析失败回复 {"error": ...}。
type WSServer struct {
	proc     *Processor
	log      *logger.Logger
	obs      ConnObserver
	upgrader websocket.Upgrader

	WriteTimeout time.Duration
}

func NewWSServer(proc *Processor, log *logger.Logger, obs ConnObserver) *WSServer {
	if log == nil {
		log = logger.NewNop()
	}
	return &WSServer{
		proc: proc,
		log:  log,
		obs:  obs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		WriteTimeout: 5 * time.Second,
	}
}

// Handler routes TickPath to the websocket loop.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(TickPath, s)
	return mux
}

func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	if s.obs != nil {
		s.obs.RecordWSConnection()
	}
	s.log.Info("harness connected", zap.String("remote", r.RemoteAddr))

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		reply, err := s.proc.Process(msg)
		if err != nil {
			s.log.Warn("tick rejected", zap.Error(err))
			reply = encodeError(err)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			s.log.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

// ListenAndServe 阻塞直到 ctx 结束或监听失败；ready 在端口就绪后被调用。
func (s *WSServer) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(ln.Addr())
	}
	return s.Serve(ctx, ln)
}

// Serve 在 ln 上提供服务直到 ctx 结束或 Accept 失败，两种情况下关停 goroutine 都会退出。
func (s *WSServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
