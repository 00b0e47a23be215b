package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/share"
)

type call struct {
	method string
	chatID string
	text   string
	file   string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	c := call{method: method}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			c.chatID = r.FormValue("chat_id")
			c.text = r.FormValue("caption")
			if _, hdr, err := r.FormFile("document"); err == nil {
				c.file = hdr.Filename
			}
		}
	} else {
		r.ParseForm()
		c.chatID = r.FormValue("chat_id")
		c.text = r.FormValue("text")
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	var result any = map[string]any{
		"message_id": 1,
		"date":       0,
		"chat":       map[string]any{"id": 42, "type": "private"},
	}
	if method == "getMe" {
		result = map[string]any{"id": 1, "is_bot": true, "first_name": "Recipes", "username": "recipebox_bot"}
	}
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

func (f *fakeAPI) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		out = append(out, c.method)
	}
	return out
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	bot, err := NewBotWithEndpoint("TOKEN", srv.URL+"/bot%s/%s", 42, logger)
	if err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}
	return bot, fake
}

func TestSendBundle(t *testing.T) {
	t.Parallel()
	bot, fake := newTestBot(t)

	p := share.NewPackage("Soup night", time.Now())
	p.Recipes = []*models.Recipe{{ID: 1, Title: "Soup", Ingredients: []string{"water"}, Instructions: []string{"Boil."}, Servings: 2}}
	bundle, err := share.NewBundle(p, true)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if err := bot.Send(context.Background(), bundle); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := fake.methods()
	want := []string{"getMe", "sendDocument", "sendDocument", "sendMessage"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("calls %v, want %v", got, want)
	}
	doc := fake.calls[1]
	if doc.chatID != "42" || doc.text != "Soup night (1 recipe)" || doc.file != bundle.Name+share.FileExt {
		t.Fatalf("unexpected document call %+v", doc)
	}
	if !strings.Contains(fake.calls[3].text, "1. Boil.") {
		t.Fatalf("text rendering not sent: %q", fake.calls[3].text)
	}
}

func TestSendCancelled(t *testing.T) {
	t.Parallel()
	bot, fake := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bot.Send(ctx, &share.Bundle{Name: "x"}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := len(fake.methods()); n != 1 {
		t.Fatalf("expected no API calls after getMe, got %d", n-1)
	}
}

func TestHandleUpdate(t *testing.T) {
	t.Parallel()
	bot, fake := newTestBot(t)
	handled := false
	handle := func(ctx context.Context, p *share.Package) (string, error) {
		handled = true
		return "ok", nil
	}

	other := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 7},
		Document:  &tgbotapi.Document{FileID: "f", FileName: "x" + share.FileExt},
	}}
	bot.handleUpdate(context.Background(), other, handle)

	wrongFile := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		Chat:      &tgbotapi.Chat{ID: 42},
		Document:  &tgbotapi.Document{FileID: "f", FileName: "notes.txt"},
	}}
	bot.handleUpdate(context.Background(), wrongFile, handle)

	if handled {
		t.Fatalf("handler should not run")
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.calls) != 2 || fake.calls[1].method != "sendMessage" || !strings.Contains(fake.calls[1].text, "not a recipebox share package") {
		t.Fatalf("unexpected calls %+v", fake.calls)
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"short", "hello", 10, []string{"hello"}},
		{"empty", "", 10, nil},
		{"prefers newline", "aaaa\nbbbbbbb", 8, []string{"aaaa\n", "bbbbbbb"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps runes whole", "ééé", 3, []string{"é", "é", "é"}},
	}
	for _, tc := range cases {
		got := splitMessage(tc.text, tc.limit)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
