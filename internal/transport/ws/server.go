package ws

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"minerbot.gg/internal/game/engine"
	"minerbot.gg/internal/protocol"
)

// Server exposes the engine over a websocket: one HELLO handshake binding
// the connection to a player address, then ACT/RESULT pairs.
type Server struct {
	engine *engine.Engine
	log    *log.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewServer(e *engine.Engine, logger *log.Logger) *Server {
	return &Server{
		engine: e,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		limiters: map[string]*rate.Limiter{},
	}
}

// limiter returns the per-IP token bucket, creating it on first sight.
func (s *Server) limiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[ip]
	if !ok {
		l = rate.NewLimiter(10, 20)
		s.limiters[ip] = l
	}
	return l
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.limiter(ip).Allow() {
			http.Error(rw, "rate limited", http.StatusTooManyRequests)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		player := s.handshake(conn)
		if player == "" {
			return
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if !s.limiter(ip).Allow() {
				s.writeResult(conn, protocol.ResultMsg{
					Type:            protocol.TypeResult,
					ProtocolVersion: protocol.Version,
					OK:              false,
					Reason:          protocol.ErrRateLimit,
				})
				continue
			}

			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				s.writeResult(conn, protocol.ResultMsg{
					Type:            protocol.TypeResult,
					ProtocolVersion: protocol.Version,
					OK:              false,
					Reason:          protocol.ErrProtoBadRequest,
				})
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil || act.ProtocolVersion != protocol.Version {
				s.writeResult(conn, protocol.ResultMsg{
					Type:            protocol.TypeResult,
					ProtocolVersion: protocol.Version,
					ActID:           act.ActID,
					OK:              false,
					Reason:          protocol.ErrProtoBadRequest,
				})
				continue
			}

			res := s.engine.Do(player, act)
			res.ActID = act.ActID
			s.writeResult(conn, res)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (player string) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return ""
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return ""
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unsupported protocol version"), time.Now().Add(time.Second))
		return ""
	}
	addr := strings.TrimSpace(hello.PlayerAddress)
	if addr == "" {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "missing player address"), time.Now().Add(time.Second))
		return ""
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerAddress:   addr,
		EngineParams:    s.engine.Params(),
	}
	b, err := json.Marshal(welcome)
	if err != nil {
		return ""
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return ""
	}
	return addr
}

func (s *Server) writeResult(conn *websocket.Conn, res protocol.ResultMsg) {
	b, err := json.Marshal(res)
	if err != nil {
		s.log.Printf("ws: marshal result: %v", err)
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Printf("ws: write: %v", err)
	}
}
