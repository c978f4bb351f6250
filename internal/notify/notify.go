// Package notify доставляет пользователю блокирующие уведомления об успехе и ошибках.
package notify

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Icon возвращает значок уровня
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "✓"
	case SeverityWarning:
		return "⚠"
	case SeverityError:
		return "✗"
	default:
		return "•"
	}
}

// Notice - уведомление с заголовком, текстом и уровнем
type Notice struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	// Confirm - подпись кнопки подтверждения, пусто означает "OK"
	Confirm string `json:"confirm,omitempty"`
}

type Notifier interface {
	Notify(n Notice)
}

// Terminal печатает уведомления в терминал и при Blocking ждет Enter.
type Terminal struct {
	out      io.Writer
	in       *bufio.Reader
	blocking bool
	mu       sync.Mutex
}

// NewTerminal создает терминальный нотификатор. Если in == nil, подтверждение не ожидается.
// Переданный *bufio.Reader используется как есть, чтобы не терять буферизованный ввод.
func NewTerminal(out io.Writer, in io.Reader) *Terminal {
	t := &Terminal{out: out}
	if in != nil {
		t.in = Buffered(in)
		t.blocking = true
	}
	return t
}

// Buffered возвращает in, если это уже *bufio.Reader, иначе оборачивает его
func Buffered(in io.Reader) *bufio.Reader {
	if br, ok := in.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(in)
}

func (t *Terminal) Notify(n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	paint := color.New(color.FgCyan, color.Bold)
	switch n.Severity {
	case SeveritySuccess:
		paint = color.New(color.FgGreen, color.Bold)
	case SeverityWarning:
		paint = color.New(color.FgYellow, color.Bold)
	case SeverityError:
		paint = color.New(color.FgRed, color.Bold)
	}

	fmt.Fprintf(t.out, "%s %s\n", paint.Sprint(n.Severity.Icon()), paint.Sprint(n.Title))
	if n.Message != "" {
		fmt.Fprintf(t.out, "  %s\n", n.Message)
	}

	if !t.blocking {
		return
	}

	confirm := n.Confirm
	if confirm == "" {
		confirm = "OK"
	}
	fmt.Fprintf(t.out, "  [%s] ", confirm)
	_, _ = t.in.ReadString('\n')
}

// Recorder запоминает уведомления, используется в тестах и для вывода в JSON.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices возвращает копию накопленных уведомлений
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last возвращает последнее уведомление
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Multi рассылает уведомление нескольким получателям
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, nt := range m {
		nt.Notify(n)
	}
}
