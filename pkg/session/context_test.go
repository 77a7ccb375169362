package session

import (
	"testing"

	"github.com/kxchu/pinyinserve/pkg/decoder"
	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
)

func newTestContext() *Context {
	lm := langmodel.NewStaticModel()
	lm.AddWord("你", "ni", -1.0)
	lm.AddWord("好", "hao", -1.0)
	h := history.New()
	return New(lm, h, decoder.DefaultOptions())
}

func TestAppendAndDecode(t *testing.T) {
	ctx := newTestContext()

	if err := ctx.Append("nihao"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ctx.Buffer() != "nihao" {
		t.Fatalf("Buffer() = %q, want %q", ctx.Buffer(), "nihao")
	}

	sentences := ctx.Decode()
	if len(sentences) == 0 {
		t.Fatalf("Decode() returned no candidates")
	}
}

func TestAppendIncrementally(t *testing.T) {
	ctx := newTestContext()

	if err := ctx.Append("ni"); err != nil {
		t.Fatalf("Append(ni) error = %v", err)
	}
	if err := ctx.Append("hao"); err != nil {
		t.Fatalf("Append(hao) error = %v", err)
	}
	if ctx.Buffer() != "nihao" {
		t.Fatalf("Buffer() = %q after two Appends, want %q", ctx.Buffer(), "nihao")
	}
}

func TestBackspaceShrinksBuffer(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")

	ctx.Backspace(3)
	if ctx.Buffer() != "ni" {
		t.Fatalf("Buffer() after Backspace(3) = %q, want %q", ctx.Buffer(), "ni")
	}
}

func TestBackspaceClampsToEmpty(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("ni")

	ctx.Backspace(100)
	if ctx.Buffer() != "" {
		t.Fatalf("Buffer() after over-deleting = %q, want empty", ctx.Buffer())
	}
}

func TestClearResetsBuffer(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")
	ctx.Clear()

	if ctx.Buffer() != "" {
		t.Fatalf("Buffer() after Clear = %q, want empty", ctx.Buffer())
	}
	if sentences := ctx.Decode(); sentences != nil {
		t.Fatalf("Decode() after Clear = %v, want nil", sentences)
	}
}

func TestCommitFeedsHistoryAndClearsBuffer(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")
	ctx.Decode()

	text, err := ctx.Commit(0)
	if err != nil {
		t.Fatalf("Commit(0) error = %v", err)
	}
	if text == "" {
		t.Fatalf("Commit(0) returned empty text")
	}
	if ctx.Buffer() != "" {
		t.Fatalf("Buffer() after Commit = %q, want empty", ctx.Buffer())
	}
}

func TestCursorStartsAtZeroAndFollowsAppend(t *testing.T) {
	ctx := newTestContext()
	if ctx.Cursor() != 0 {
		t.Fatalf("Cursor() on an empty context = %d, want 0", ctx.Cursor())
	}
	_ = ctx.Append("nihao")
	if ctx.Cursor() != 5 {
		t.Fatalf("Cursor() after Append(nihao) = %d, want 5", ctx.Cursor())
	}
}

func TestMoveCursorClampsToBufferBounds(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")

	ctx.MoveCursor(-100)
	if ctx.Cursor() != 0 {
		t.Fatalf("Cursor() after MoveCursor(-100) = %d, want 0", ctx.Cursor())
	}
	ctx.MoveCursor(100)
	if ctx.Cursor() != len(ctx.Buffer()) {
		t.Fatalf("Cursor() after MoveCursor(100) = %d, want %d", ctx.Cursor(), len(ctx.Buffer()))
	}
}

func TestAppendAtMidBufferCursorInsertsInPlace(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nao") // "n" + "ao"
	ctx.SetCursor(1)
	if err := ctx.Append("ih"); err != nil {
		t.Fatalf("Append(ih) error = %v", err)
	}
	if ctx.Buffer() != "nihao" {
		t.Fatalf("Buffer() = %q, want %q", ctx.Buffer(), "nihao")
	}
	if ctx.Cursor() != 3 {
		t.Fatalf("Cursor() after mid-buffer insert = %d, want 3", ctx.Cursor())
	}
}

func TestBackspaceDeletesBeforeCursorNotAlwaysAtEnd(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")
	ctx.SetCursor(2)

	ctx.Backspace(2)
	if ctx.Buffer() != "hao" {
		t.Fatalf("Buffer() after Backspace(2) at cursor 2 = %q, want %q", ctx.Buffer(), "hao")
	}
	if ctx.Cursor() != 0 {
		t.Fatalf("Cursor() after Backspace(2) at cursor 2 = %d, want 0", ctx.Cursor())
	}
}

func TestClearResetsCursor(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")
	ctx.Clear()
	if ctx.Cursor() != 0 {
		t.Fatalf("Cursor() after Clear = %d, want 0", ctx.Cursor())
	}
}

func TestCommitOutOfRangeReturnsError(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Append("nihao")
	ctx.Decode()

	if _, err := ctx.Commit(999); err == nil {
		t.Fatalf("Commit(999) error = nil, want an out-of-range error")
	}
}
