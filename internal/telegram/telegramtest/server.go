// Package telegramtest runs a fake Bot API server for handler tests.
package telegramtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
)

const Token = "123456:test"

// Call is one Bot API request.
type Call struct {
	Method string
	Params map[string]string
	Files  map[string]string
}

// Server records Bot API calls and answers every one with success.
type Server struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls []Call
}

func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// Bot returns a client talking to the fake server.
func (s *Server) Bot(t *testing.T) *bot.Bot {
	t.Helper()
	b, err := bot.New(Token, bot.WithServerURL(s.srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}
	return b
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	call := Call{Method: method, Params: map[string]string{}, Files: map[string]string{}}

	if err := r.ParseMultipartForm(8 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				call.Params[k] = v[0]
			}
		}
		for k, fhs := range r.MultipartForm.File {
			if len(fhs) > 0 {
				call.Files[k] = fhs[0].Filename
			}
		}
	} else if err := r.ParseForm(); err == nil {
		for k := range r.Form {
			call.Params[k] = r.Form.Get(k)
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	var result any = true
	switch method {
	case "sendMessage", "sendDocument", "editMessageText":
		result = map[string]any{
			"message_id": len(s.Calls()),
			"date":       0,
			"chat":       map[string]any{"id": 0, "type": "private"},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

// Calls returns every recorded request.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Method returns the recorded requests for one Bot API method.
func (s *Server) Method(name string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == name {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the text of every sendMessage call.
func (s *Server) Texts() []string {
	var out []string
	for _, c := range s.Method("sendMessage") {
		out = append(out, c.Params["text"])
	}
	return out
}

// Reset forgets the recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}
