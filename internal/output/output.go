// Package output renders a generated snippet: copy, download and preview.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/set-night/codegen/internal/config"
)

const DefaultFilename = "generated-code.txt"

// Toast texts shown after copy and download.
const (
	TitleCopied     = "Скопировано"
	TitleDownloaded = "Скачано"
	TextDownloaded  = "Файл сохранён на вашем устройстве"
	TextNoPreview   = "Предпросмотр доступен для HTML/CSS/JS кода"
)

// Download writes code to DefaultFilename inside dir and returns the path.
// An empty dir means the working directory.
func Download(dir, code string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, DefaultFilename)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", DefaultFilename, err)
	}
	return path, nil
}

// Fence wraps code in a Markdown code block. It reports false, and returns
// code untouched, when the code contains a fence of its own: Markdown cannot
// nest blocks, so such code has to be sent without parsing.
func Fence(code string) (string, bool) {
	if strings.Contains(code, "```") {
		return code, false
	}
	return "```\n" + strings.TrimRight(code, "\n") + "\n```", true
}

// Preview summarises an HTML document.
type Preview struct {
	Title   string
	Text    string
	Scripts int
	Styles  int
	Links   int
}

// NewPreview parses code as HTML. ok is false when code does not look like
// markup, in which case TextNoPreview should be shown instead.
func NewPreview(code string) (Preview, bool) {
	if !looksLikeHTML(code) {
		return Preview{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(code))
	if err != nil {
		return Preview{}, false
	}

	p := Preview{
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Scripts: doc.Find("script").Length(),
		Styles:  doc.Find("style").Length() + doc.Find(`link[rel="stylesheet"]`).Length(),
		Links:   doc.Find("a[href]").Length(),
	}

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	p.Text = excerpt(strings.Join(strings.Fields(body.Text()), " "), config.PreviewExcerptLen)
	return p, true
}

// String renders the preview as plain text lines.
func (p Preview) String() string {
	var b strings.Builder
	if p.Title != "" {
		fmt.Fprintf(&b, "Заголовок: %s\n", p.Title)
	}
	if p.Text != "" {
		fmt.Fprintf(&b, "Текст: %s\n", p.Text)
	}
	fmt.Fprintf(&b, "Скрипты: %d, стили: %d, ссылки: %d", p.Scripts, p.Styles, p.Links)
	return b.String()
}

func looksLikeHTML(code string) bool {
	s := strings.ToLower(strings.TrimSpace(code))
	for _, tag := range []string{"<!doctype html", "<html", "<body", "<head", "<div", "<style", "<script", "<svg"} {
		if strings.Contains(s, tag) {
			return true
		}
	}
	return false
}

func excerpt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}
