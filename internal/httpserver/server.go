// Package httpserver exposes the chat, history and voice-capture operations
// over HTTP and a websocket.
package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/capture"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/session"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/store"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/tts"
)

// Server bundles the router and its dependencies.
type Server struct {
	Echo *echo.Echo

	sess       *session.Session
	audioDir   string
	permission capture.PermissionFunc
	upgrader   websocket.Upgrader
}

// New constructs the HTTP server with routes. audioDir is where finalized
// recordings land; it and ttsDir are served read-only for playback.
func New(sess *session.Session, audioDir, ttsDir string, permission capture.PermissionFunc) *Server {
	e := newEcho()
	s := &Server{
		sess:       sess,
		audioDir:   audioDir,
		permission: permission,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/api/chat", s.chat)
	e.GET("/api/history", s.history)
	e.DELETE("/api/history", s.clearHistory)
	e.POST("/api/turns/:timestamp/speak", s.speak)
	e.GET("/ws/voice", s.voice)
	e.Static("/api/audio", audioDir)
	e.Static("/api/tts-audio", ttsDir)

	s.Echo = e
	return s
}

type chatRequest struct {
	Question     string `json:"question"`
	LanguageCode string `json:"language_code"`
}

func (s *Server) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	turn, err := s.sess.TextTurn(c.Request().Context(), req.Question, req.LanguageCode)
	if err != nil {
		if errors.Is(err, session.ErrEmptyQuestion) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		c.Echo().Logger.Errorf("text turn failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to complete turn"})
	}
	return c.JSON(http.StatusOK, turn)
}

func (s *Server) history(c echo.Context) error {
	turns, err := s.sess.History()
	if err != nil {
		if errors.Is(err, store.ErrCorruptStore) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat history is corrupt"})
		}
		c.Echo().Logger.Errorf("load history failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load history"})
	}
	return c.JSON(http.StatusOK, turns)
}

func (s *Server) clearHistory(c echo.Context) error {
	if err := s.sess.ClearHistory(); err != nil {
		c.Echo().Logger.Errorf("clear history failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear history"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) speak(c echo.Context) error {
	timestamp, err := strconv.ParseInt(c.Param("timestamp"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid timestamp"})
	}
	path, err := s.sess.SpeakAnswer(c.Request().Context(), timestamp)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrTurnNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, session.ErrNotSpeakable), errors.Is(err, tts.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			c.Echo().Logger.Errorf("synthesis failed: %v", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "speech synthesis failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ttsAudioPath": path})
}

// wsReply is what the voice websocket sends back for each client action.
type wsReply struct {
	Type  string      `json:"type"`
	Error string      `json:"error,omitempty"`
	Turn  *store.Turn `json:"turn,omitempty"`
}

// voice drives one capture session per websocket connection. Binary frames
// are recording chunks; text frames "start" and "stop" drive the state
// machine, and stop finalizes the recording then runs the full voice turn.
// A client that disconnects mid-recording has its capture discarded.
func (s *Server) voice(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	rec := capture.NewSession(s.audioDir, s.permission)
	defer rec.Abort()

	ctx := c.Request().Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		switch msgType {
		case websocket.BinaryMessage:
			if err := rec.Write(data); err != nil {
				s.send(conn, wsReply{Type: "error", Error: err.Error()})
			}
		case websocket.TextMessage:
			switch string(data) {
			case "start":
				if err := rec.RequestStart(); err != nil {
					s.send(conn, wsReply{Type: "error", Error: err.Error()})
					continue
				}
				s.send(conn, wsReply{Type: "recording"})
			case "stop":
				path, err := rec.RequestStop()
				if err != nil {
					s.send(conn, wsReply{Type: "error", Error: err.Error()})
					continue
				}
				turn, err := s.sess.VoiceTurn(ctx, path)
				if err != nil {
					if errors.Is(err, session.ErrTurnAbandoned) {
						s.send(conn, wsReply{Type: "abandoned", Error: err.Error()})
					} else {
						s.send(conn, wsReply{Type: "error", Error: err.Error()})
					}
					continue
				}
				s.send(conn, wsReply{Type: "turn", Turn: &turn})
			default:
				s.send(conn, wsReply{Type: "error", Error: "unknown command"})
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, reply wsReply) {
	if err := conn.WriteJSON(reply); err != nil {
		s.Echo.Logger.Errorf("websocket write failed: %v", err)
	}
}
