package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-formbar/pkg/render"
)

const formsFixture = "../../pkg/config/testdata/forms.xml"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func copyFixture(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(formsFixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "forms.xml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newTestServer(t *testing.T, path string, opts ...Option) *httptest.Server {
	t.Helper()

	store, err := NewStore(path, discardLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	srv, err := New(store, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_ShowForm(t *testing.T) {
	ts := newTestServer(t, formsFixture, WithHiddenFields(render.CSRFToken("csrf", "t0k")))

	status, body := get(t, ts.URL+"/forms/survey?user=alice&choice=1")
	if status != http.StatusOK {
		t.Fatalf("status: got %d, want 200\n%s", status, body)
	}
	for _, want := range []string{
		`<link rel="stylesheet" href="/assets/formbar.css"/>`,
		`<input type="radio" id="e_choice-0" name="choice" value="1" checked/> Yes</label>`,
		`<input type="hidden" id="e_choice" name="choice" value="0"/>`,
		`name="csrf" value="t0k"`,
		`value="alice"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
}

func TestServer_SubsetAndUnknownForm(t *testing.T) {
	ts := newTestServer(t, formsFixture)

	status, body := get(t, ts.URL+"/forms/survey?fields=-choice")
	if status != http.StatusOK {
		t.Fatalf("status: got %d\n%s", status, body)
	}
	if strings.Contains(body, `name="choice"`) {
		t.Fatalf("excluded field rendered:\n%s", body)
	}

	if status, _ := get(t, ts.URL+"/forms/nope"); status != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", status)
	}
}

func TestServer_SubmitEchoesValues(t *testing.T) {
	ts := newTestServer(t, formsFixture)

	resp, err := http.PostForm(ts.URL+"/forms/survey", url.Values{"comment": {"hello <world>"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d\n%s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "hello &lt;world&gt;") {
		t.Fatalf("submitted value not echoed escaped:\n%s", body)
	}
}

func TestServer_SubmitFeedsFilterReferences(t *testing.T) {
	doc := `<configuration>
  <source>
    <entity id="e_country" name="country"/>
    <entity id="e_city" name="city">
      <renderer type="radio" remove_filtered="true" filter="%country == $country"/>
      <options>
        <option value="berlin" country="de">Berlin</option>
        <option value="paris" country="fr">Paris</option>
      </options>
    </entity>
  </source>
  <form id="f"><field ref="e_country"/><field ref="e_city"/></form>
</configuration>`
	path := filepath.Join(t.TempDir(), "forms.xml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ts := newTestServer(t, path)

	_, shown := get(t, ts.URL+"/forms/f?country=de")

	resp, err := http.PostForm(ts.URL+"/forms/f", url.Values{"country": {"de"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	submitted, _ := io.ReadAll(resp.Body)

	for name, body := range map[string]string{"GET": shown, "POST": string(submitted)} {
		if !strings.Contains(body, `value="berlin"`) {
			t.Fatalf("%s: expected berlin option:\n%s", name, body)
		}
		if strings.Contains(body, `value="paris"`) {
			t.Fatalf("%s: paris should be removed:\n%s", name, body)
		}
	}
}

func TestServer_HealthReportsReloadErrorAsJSON(t *testing.T) {
	path := copyFixture(t)
	store, err := NewStore(path, discardLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	srv, err := New(store, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	if err := os.WriteFile(path, []byte("<configuration>\x01<form"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}

	status, body := get(t, ts.URL+"/healthz")
	if status != http.StatusServiceUnavailable {
		t.Fatalf("healthz: got %d, want 503", status)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("healthz body is not JSON: %v\n%s", err, body)
	}
	if payload["status"] != "degraded" || payload["error"] == "" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestServer_IndexHealthAndAssets(t *testing.T) {
	ts := newTestServer(t, formsFixture)

	status, body := get(t, ts.URL+"/")
	if status != http.StatusOK || !strings.Contains(body, `<a href="/forms/survey">survey</a>`) {
		t.Fatalf("index: %d\n%s", status, body)
	}

	status, body = get(t, ts.URL+"/healthz")
	if status != http.StatusOK || body != `{"status":"ok"}` {
		t.Fatalf("healthz: %d %s", status, body)
	}

	status, body = get(t, ts.URL+"/assets/formbar.css")
	if status != http.StatusOK || !strings.Contains(body, ".formbar-form") {
		t.Fatalf("stylesheet: %d", status)
	}
}

func TestStore_ReloadKeepsPreviousOnError(t *testing.T) {
	path := copyFixture(t)
	store, err := NewStore(path, discardLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := os.WriteFile(path, []byte("<configuration><form"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if store.Config() == nil || store.Err() == nil {
		t.Fatalf("expected previous config and recorded error")
	}
	if _, err := store.Config().Form("survey"); err != nil {
		t.Fatalf("previous config lost: %v", err)
	}
}

func TestStore_NewFailsOnMissingFile(t *testing.T) {
	if _, err := NewStore(filepath.Join(t.TempDir(), "missing.xml"), discardLogger()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := NewStore("", nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestStore_WatchReloadsOnChange(t *testing.T) {
	path := copyFixture(t)
	store, err := NewStore(path, discardLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	<-store.Reloaded()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.Watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}

	doc := `<configuration><form id="fresh"/></configuration>`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-store.Reloaded():
			if ids := store.Config().FormIDs(); len(ids) == 1 && ids[0] == "fresh" {
				return
			}
		case <-deadline:
			t.Fatalf("config not reloaded, forms: %v", store.Config().FormIDs())
		}
	}
}
