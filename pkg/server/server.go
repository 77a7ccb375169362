package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kxchu/pinyinserve/internal/logger"
	"github.com/kxchu/pinyinserve/pkg/decoder"
	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
	"github.com/kxchu/pinyinserve/pkg/session"
)

// Server handles the msgpack IPC for the decoder engine, one session per
// connected client.
type Server struct {
	ctx     *session.Context
	history *history.Bigram
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
	log     *log.Logger
}

// NewServer returns a Server reading requests from r and writing
// responses to w, decoding against lm and persisting learning to h.
func NewServer(r io.Reader, w io.Writer, lm langmodel.Model, h *history.Bigram, opts decoder.Options) *Server {
	return &Server{
		ctx:     session.New(lm, h, opts),
		history: h,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
		log:     logger.Default("server"),
	}
}

// NewStdioServer is a convenience constructor wired to os.Stdin/os.Stdout,
// mirroring the teacher's stdin/stdout IPC shape.
func NewStdioServer(lm langmodel.Model, h *history.Bigram, opts decoder.Options) *Server {
	return NewServer(os.Stdin, os.Stdout, lm, h, opts)
}

// SetFuzzyFlags sets the fuzzy flags applied to future decode requests, for
// callers that want to seed a session's defaults before Start reads from
// stdin (e.g. from configuration at startup).
func (s *Server) SetFuzzyFlags(flags pinyin.FuzzyFlag) {
	s.ctx.SetFuzzyFlags(flags)
}

// Start begins processing requests until the input stream is exhausted or
// a decode error occurs.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")
	for {
		var raw map[string]interface{}
		if err := s.dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

func (s *Server) handleRequest(raw map[string]interface{}) {
	op, _ := raw["op"].(string)
	id, _ := raw["id"].(string)

	body, err := msgpack.Marshal(raw)
	if err != nil {
		s.log.Errorf("Re-marshaling request: %v", err)
		return
	}

	switch op {
	case "decode":
		s.handleDecode(body)
	case "commit":
		s.handleCommit(body)
	case "history_stats":
		s.handleHistoryStats(id)
	case "set_fuzzy_flags":
		s.handleSetFuzzyFlags(body)
	case "move_cursor":
		s.handleMoveCursor(body)
	default:
		s.send(DecodeResponse{ID: id, Error: fmt.Sprintf("unknown op: %q", op)})
	}
}

func (s *Server) handleDecode(body []byte) {
	var req DecodeRequest
	if err := msgpack.Unmarshal(body, &req); err != nil {
		s.send(DecodeResponse{Error: "invalid decode request"})
		return
	}

	start := time.Now()
	if err := s.ctx.Append(req.Keys); err != nil {
		s.send(DecodeResponse{ID: req.ID, Error: err.Error()})
		return
	}
	sentences := s.ctx.Decode()
	elapsed := time.Since(start)

	candidates := make([]SentenceCandidate, len(sentences))
	for i, sent := range sentences {
		candidates[i] = SentenceCandidate{Words: sent.Words, Cost: sent.Cost}
	}
	s.send(DecodeResponse{ID: req.ID, Candidates: candidates, TimeTaken: elapsed.Milliseconds()})
}

func (s *Server) handleCommit(body []byte) {
	var req CommitRequest
	if err := msgpack.Unmarshal(body, &req); err != nil {
		s.send(CommitResponse{Error: "invalid commit request"})
		return
	}
	text, err := s.ctx.Commit(req.Index)
	if err != nil {
		s.send(CommitResponse{ID: req.ID, Error: err.Error()})
		return
	}
	s.send(CommitResponse{ID: req.ID, Text: text})
}

func (s *Server) handleHistoryStats(id string) {
	s.send(HistoryStatsResponse{
		ID:         id,
		RecentSize: s.history.RecentSize(),
		FinalSize:  s.history.FinalSize(),
	})
}

func (s *Server) handleSetFuzzyFlags(body []byte) {
	var req SetFuzzyFlagsRequest
	if err := msgpack.Unmarshal(body, &req); err != nil {
		s.send(SetFuzzyFlagsResponse{Status: "error"})
		return
	}
	s.ctx.SetFuzzyFlags(pinyin.ParseFlagNames(req.Flags))
	s.send(SetFuzzyFlagsResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) handleMoveCursor(body []byte) {
	var req MoveCursorRequest
	if err := msgpack.Unmarshal(body, &req); err != nil {
		s.send(MoveCursorResponse{Error: "invalid move_cursor request"})
		return
	}
	s.ctx.MoveCursor(req.Delta)
	s.send(MoveCursorResponse{ID: req.ID, Cursor: s.ctx.Cursor(), Buffer: s.ctx.Buffer()})
}

func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}
