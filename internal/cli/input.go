// Package cli implements an interactive terminal REPL for typing pinyin
// and inspecting segmentation, candidates, and history in real time.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kxchu/pinyinserve/internal/logger"
	"github.com/kxchu/pinyinserve/pkg/decoder"
	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
	"github.com/kxchu/pinyinserve/pkg/session"
)

// InputHandler drives an interactive pinyin-typing debug session: it
// reads keystroke lines from stdin, feeds them into a PinyinContext, and
// prints the decoded candidates. A leading ":" selects a control command
// (commit N, clear, flags ...) instead of appending keystrokes.
type InputHandler struct {
	ctx          *session.Context
	requestCount int
	log          *log.Logger
}

// NewInputHandler returns an InputHandler bound to the given collaborators.
func NewInputHandler(lm langmodel.Model, h *history.Bigram, opts decoder.Options) *InputHandler {
	return &InputHandler{ctx: session.New(lm, h, opts), log: logger.Default("cli")}
}

// SetFuzzyFlags sets the fuzzy flags applied to future keystrokes, for
// callers that want to seed a session before Start reads from stdin.
func (h *InputHandler) SetFuzzyFlags(flags pinyin.FuzzyFlag) {
	h.ctx.SetFuzzyFlags(flags)
}

// Start begins the interface loop. It terminates if an error occurs while
// reading from stdin.
func (h *InputHandler) Start() error {
	h.log.Print("pinyinserve debug CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type pinyin keystrokes and press Enter; ':commit N', ':clear', ':flags a,b,c', ':cursor N' for control (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleLine(line)
	}
}

func (h *InputHandler) handleLine(line string) {
	h.requestCount++
	if strings.HasPrefix(line, ":") {
		h.handleCommand(strings.TrimPrefix(line, ":"))
		return
	}
	h.handleKeystrokes(line)
}

func (h *InputHandler) handleCommand(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "clear":
		h.ctx.Clear()
		h.log.Print("buffer cleared")
	case "commit":
		idx := 0
		if len(fields) > 1 {
			fmt.Sscanf(fields[1], "%d", &idx)
		}
		text, err := h.ctx.Commit(idx)
		if err != nil {
			h.log.Errorf("commit failed: %v", err)
			return
		}
		h.log.Printf("committed: %s", text)
	case "flags":
		var names []string
		if len(fields) > 1 {
			names = strings.Split(fields[1], ",")
		}
		h.ctx.SetFuzzyFlags(pinyin.ParseFlagNames(names))
		h.log.Printf("fuzzy flags set to: %v", fields[1:])
	case "cursor":
		delta := 0
		if len(fields) > 1 {
			fmt.Sscanf(fields[1], "%d", &delta)
		}
		h.ctx.MoveCursor(delta)
		h.log.Printf("cursor at %d in '%s'", h.ctx.Cursor(), h.ctx.Buffer())
	default:
		h.log.Warnf("unknown command: %s", fields[0])
	}
}

func (h *InputHandler) handleKeystrokes(keys string) {
	if err := h.ctx.Append(keys); err != nil {
		h.log.Errorf("append failed: %v", err)
		return
	}
	sentences := h.ctx.Decode()
	if len(sentences) == 0 {
		h.log.Warnf("no candidates for buffer: '%s'", h.ctx.Buffer())
		return
	}
	h.log.Printf("%d candidates for '%s':", len(sentences), h.ctx.Buffer())
	for i, sent := range sentences {
		word := fmt.Sprintf("\033[38;5;75m%s\033[0m", strings.Join(sent.Words, ""))
		h.log.Printf("%2d. %-30s (cost: %8.3f)", i, word, sent.Cost)
	}
}
