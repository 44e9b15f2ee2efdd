package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loykin/frontc/cmd/frontc/config"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/directory"
	"github.com/loykin/frontc/internal/form"
	"github.com/loykin/frontc/internal/server"
	"github.com/loykin/frontc/internal/store"
	"github.com/loykin/frontc/internal/store/sqlite"
	"github.com/spf13/viper"
)

// startDevServer runs the dev server on httptest backed by a temp sqlite file.
func startDevServer(t *testing.T) (*config.ConfigDoc, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "frontc.db")
	st, err := store.Open(context.Background(), store.Config{SQLite: sqlite.Config{Path: dbPath}})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	srv, err := server.New(server.Options{Contacts: st})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})
	doc := &config.ConfigDoc{}
	doc.Client.BaseURL = ts.URL
	doc.Store.SQLite.Path = dbPath
	return doc, dbPath
}

func TestRunDirectory_AppendsRowsInServerOrder(t *testing.T) {
	doc, _ := startDevServer(t)
	buf := &directory.Buffer{}

	if err := runDirectory(context.Background(), doc, buf, "", 2); err != nil {
		t.Fatalf("runDirectory: %v", err)
	}
	rows := buf.Rows()
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows after two runs, got %d", len(rows))
	}
	if !strings.Contains(rows[0], "> Linkedin</a>") || !strings.Contains(rows[2], "> Instagram</a>") {
		t.Errorf("unexpected order: %v", rows[:3])
	}
	if rows[0] != rows[3] {
		t.Errorf("second run should duplicate the first: %q vs %q", rows[0], rows[3])
	}
}

func TestRunDirectory_SearchMissAndTransportFailure(t *testing.T) {
	doc, _ := startDevServer(t)
	var logs bytes.Buffer
	prev := common.GetLogger()
	common.SetDefaultLogger(common.NewWriterLogger(common.LogLevelInfo, &logs))
	t.Cleanup(func() { common.SetDefaultLogger(prev) })

	buf := &directory.Buffer{}
	if err := runDirectory(context.Background(), doc, buf, "myspace", 1); err != nil {
		t.Fatalf("runDirectory: %v", err)
	}
	// {"error":"Not Found"} is still an object, so it renders as one row
	rows := buf.Rows()
	if len(rows) != 1 || !strings.Contains(rows[0], "> Error</a>") {
		t.Fatalf("rows = %v", rows)
	}

	doc.Client.BaseURL = "http://127.0.0.1:1"
	buf.Reset()
	if err := runDirectory(context.Background(), doc, buf, "", 1); err != nil {
		t.Fatalf("transport failures are logged, not returned: %v", err)
	}
	if len(buf.Rows()) != 0 {
		t.Fatalf("nothing should be appended on failure")
	}
	if !strings.Contains(logs.String(), "Error : ") {
		t.Errorf("expected failure on the log, got %q", logs.String())
	}
}

func TestRunSubmit_StatusAndDuplicate(t *testing.T) {
	doc, _ := startDevServer(t)
	src := form.MapSource{"name": "Ada", "email": "ada@example.com"}

	var out bytes.Buffer
	ok, err := runSubmit(context.Background(), doc, src, &out)
	if err != nil || !ok {
		t.Fatalf("runSubmit = %v, %v", ok, err)
	}
	ok, err = runSubmit(context.Background(), doc, src, &out)
	if err != nil || !ok {
		t.Fatalf("second runSubmit = %v, %v", ok, err)
	}
	ok, err = runSubmit(context.Background(), doc, form.MapSource{"name": "Ada"}, &out)
	if err != nil || !ok {
		t.Fatalf("incomplete runSubmit = %v, %v", ok, err)
	}
	want := "Status: success\n" +
		"Status: " + store.ErrDuplicateEmail.Error() + "\n" +
		"Status: error: incomplete credentials\n"
	if out.String() != want {
		t.Fatalf("alerts = %q, want %q", out.String(), want)
	}
}

func TestRunSubmit_TransportFailureAlertsOnce(t *testing.T) {
	doc := &config.ConfigDoc{}
	doc.Client.BaseURL = "http://127.0.0.1:1"
	doc.Client.Timeout = "1s"

	var out bytes.Buffer
	ok, err := runSubmit(context.Background(), doc, form.MapSource{"name": "a", "email": "b"}, &out)
	if err != nil {
		t.Fatalf("runSubmit: %v", err)
	}
	if ok || out.String() != form.ErrorMessage+"\n" {
		t.Fatalf("ok=%v out=%q", ok, out.String())
	}
}

func TestRunContacts_Formats(t *testing.T) {
	doc, _ := startDevServer(t)
	var sink bytes.Buffer
	if _, err := runSubmit(context.Background(), doc, form.MapSource{"name": "Ada", "email": "ada@example.com"}, &sink); err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := runContacts(context.Background(), doc, "text", &text); err != nil {
		t.Fatalf("runContacts text: %v", err)
	}
	if !strings.Contains(text.String(), "\tAda\tada@example.com") {
		t.Errorf("text = %q", text.String())
	}

	var js bytes.Buffer
	if err := runContacts(context.Background(), doc, "json", &js); err != nil {
		t.Fatalf("runContacts json: %v", err)
	}
	var decoded []store.Contact
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil || len(decoded) != 1 || decoded[0].Email != "ada@example.com" {
		t.Errorf("json = %q (%v)", js.String(), err)
	}

	var y bytes.Buffer
	if err := runContacts(context.Background(), doc, "yaml", &y); err != nil {
		t.Fatalf("runContacts yaml: %v", err)
	}
	if !strings.Contains(y.String(), "email: ada@example.com") {
		t.Errorf("yaml = %q", y.String())
	}

	if err := runContacts(context.Background(), doc, "xml", &y); err == nil {
		t.Error("expected invalid format error")
	}
}

func TestPrintContacts_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := printContacts(&out, nil, ""); err != nil || out.String() != "no contacts\n" {
		t.Fatalf("out=%q err=%v", out.String(), err)
	}
	out.Reset()
	if err := printContacts(&out, nil, "json"); err != nil || strings.TrimSpace(out.String()) != "[]" {
		t.Fatalf("out=%q err=%v", out.String(), err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	prev := common.GetLogger()
	t.Cleanup(func() { common.SetDefaultLogger(prev) })

	p := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(p, []byte("client:\n  base_url: http://from-file\nlogging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.Set("config", p)
	doc, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if doc.Client.BaseURL != "http://from-file" || common.GetLogger().Level() != common.LogLevelWarn {
		t.Errorf("file values not applied: %+v", doc.Client)
	}

	v.Set("base_url", "http://from-flag")
	v.Set("log_level", "debug")
	v.Set("addr", "127.0.0.1:9999")
	v.Set("db", "x.db")
	doc, err = loadConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Client.BaseURL != "http://from-flag" || doc.Server.Addr != "127.0.0.1:9999" || doc.Store.SQLite.Path != "x.db" {
		t.Errorf("overrides not applied: %+v", doc)
	}
	if common.GetLogger().Level() != common.LogLevelDebug {
		t.Errorf("log level override not applied")
	}

	missing := viper.New()
	missing.Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := loadConfig(missing); err == nil {
		t.Error("explicit missing config must fail")
	}
}

func TestRunSubmit_JWTRoundTrip(t *testing.T) {
	st, err := store.Open(context.Background(), store.Config{SQLite: sqlite.Config{Path: filepath.Join(t.TempDir(), "jwt.db")}})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Close() }()
	srv, err := server.New(server.Options{Contacts: st, JWT: &server.VerifyConfig{Secret: []byte("shared"), AllowedIssuer: "frontc"}})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var doc config.ConfigDoc
	p := filepath.Join(t.TempDir(), "c.yaml")
	body := "client:\n  base_url: " + ts.URL + "\n  auth:\n    type: jwt\n    config:\n      secret: shared\n      iss: frontc\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := doc.Load(p); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	src := form.MapSource{"name": "Ada", "email": "ada@example.com"}
	if _, err := runSubmit(context.Background(), &doc, src, &out); err != nil {
		t.Fatal(err)
	}
	doc.Client.Auth = nil
	if _, err := runSubmit(context.Background(), &doc, src, &out); err != nil {
		t.Fatal(err)
	}
	// without a token the 401 body has no status field
	if out.String() != "Status: success\nStatus: \n" {
		t.Fatalf("alerts = %q", out.String())
	}
}

func TestRunDirectory_RepeatBelowOneRunsOnce(t *testing.T) {
	doc, _ := startDevServer(t)
	var logs bytes.Buffer
	prev := common.GetLogger()
	common.SetDefaultLogger(common.NewWriterLogger(common.LogLevelInfo, &logs))
	t.Cleanup(func() { common.SetDefaultLogger(prev) })

	buf := &directory.Buffer{}
	if err := runDirectory(context.Background(), doc, buf, "", 0); err != nil {
		t.Fatalf("runDirectory: %v", err)
	}
	if len(buf.Rows()) != 3 {
		t.Fatalf("expected one pass of 3 rows, got %d", len(buf.Rows()))
	}
	if !strings.Contains(logs.String(), "repeat below 1") {
		t.Errorf("expected a warning, got %q", logs.String())
	}
}
