package cli

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Notifier prints page notifications; errors go to the error stream.
type Notifier struct {
	out, err io.Writer
}

func NewNotifier(out, err io.Writer) *Notifier {
	return &Notifier{out: out, err: err}
}

func (n *Notifier) Success(_ context.Context, title, text string) {
	fmt.Fprintf(n.out, "✓ %s: %s\n", title, text)
}

func (n *Notifier) Error(_ context.Context, title, text string) {
	fmt.Fprintf(n.err, "✗ %s: %s\n", title, text)
}

// View prints generated code between rulers.
type View struct {
	out io.Writer
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

const ruler = "────────────────────────────────────────"

func (v *View) Show(_ context.Context, code string) {
	fmt.Fprintf(v.out, "%s\n%s\n%s\n", ruler, code, ruler)
}

// Runner starts an external program without waiting for it.
type Runner func(name string, args ...string) error

// execRunner detaches the helper from any context: the CLI usually exits
// right after Open returns, and xdg-open/open must outlive it.
func execRunner(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// BrowserOpener opens URLs in the system browser and always prints them,
// so a headless terminal can still follow the link.
type BrowserOpener struct {
	out  io.Writer
	goos string
	run  Runner
}

func NewBrowserOpener(out io.Writer) *BrowserOpener {
	return &BrowserOpener{out: out, goos: runtime.GOOS, run: execRunner}
}

func (o *BrowserOpener) Open(_ context.Context, url string) error {
	fmt.Fprintf(o.out, "Страница оплаты: %s\n", url)

	name, args := browserCommand(o.goos, url)
	if err := o.run(name, args...); err != nil {
		// the URL is already on screen
		fmt.Fprintf(o.out, "Не удалось открыть браузер (%v), откройте ссылку вручную\n", err)
	}
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
