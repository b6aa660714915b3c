package http

import (
	"context"
	"strings"
	"testing"

	"github.com/staticd/staticd/pkg/config"
	"github.com/staticd/staticd/pkg/content"
	"github.com/staticd/staticd/pkg/content/memory"
)

func testConfig() *config.Config {
	return config.GetDefaultConfig()
}

func seededStore() *memory.MemoryStore {
	store := memory.New()
	store.WriteFile("/index.html", []byte("<h1>home</h1>"))
	store.WriteFile("/notes.txt", []byte("some notes"))
	store.WriteFile("/docs/guide.html", []byte("<h1>guide</h1>"))
	store.WriteFile("/docs/api.txt", []byte("api notes"))
	return store
}

func handle(t *testing.T, method, path string, cfg *config.Config, store *memory.MemoryStore) *Response {
	t.Helper()
	req := &Request{Method: method, FilePath: path}
	return HandleConnection(context.Background(), req, cfg, store)
}

func TestHandleConnection_ServesFile(t *testing.T) {
	resp := handle(t, "GET", "/notes.txt", testConfig(), seededStore())

	if resp.Status.Code != 200 {
		t.Fatalf("Code = %d, want 200", resp.Status.Code)
	}
	if string(resp.Body) != "some notes" {
		t.Errorf("Body = %q, want file content", resp.Body)
	}
	if resp.Mime != "text/plain" {
		t.Errorf("Mime = %q, want text/plain", resp.Mime)
	}
}

func TestHandleConnection_HeadBuildsFullResponse(t *testing.T) {
	resp := handle(t, "HEAD", "/notes.txt", testConfig(), seededStore())

	// The handler always produces the full body; suppressing it for HEAD
	// is the connection layer's job, so Content-Length stays truthful.
	if resp.Status.Code != 200 {
		t.Fatalf("Code = %d, want 200", resp.Status.Code)
	}
	if string(resp.Body) != "some notes" {
		t.Errorf("Body = %q, want file content", resp.Body)
	}
}

func TestHandleConnection_UnsupportedMethod(t *testing.T) {
	for _, method := range []string{"POST", "PUT", "DELETE", "OPTIONS", "get"} {
		t.Run(method, func(t *testing.T) {
			resp := handle(t, method, "/notes.txt", testConfig(), seededStore())

			if resp.Status.Code != 501 {
				t.Fatalf("Code = %d, want 501", resp.Status.Code)
			}
			if !strings.Contains(string(resp.Body), "Server only supports GET and HEAD requests") {
				t.Errorf("body missing 501 explanation: %q", resp.Body)
			}
		})
	}
}

func TestHandleConnection_RootServesIndex(t *testing.T) {
	resp := handle(t, "GET", "/", testConfig(), seededStore())

	if resp.Status.Code != 200 {
		t.Fatalf("Code = %d, want 200", resp.Status.Code)
	}
	if string(resp.Body) != "<h1>home</h1>" {
		t.Errorf("Body = %q, want index content", resp.Body)
	}
	if resp.Mime != "text/html" {
		t.Errorf("Mime = %q, want text/html", resp.Mime)
	}
}

func TestHandleConnection_MissingIndexFallsBackToListing(t *testing.T) {
	store := memory.New()
	store.WriteFile("/notes.txt", []byte("some notes"))

	resp := handle(t, "GET", "/", testConfig(), store)

	if resp.Status.Code != 200 {
		t.Fatalf("Code = %d, want 200", resp.Status.Code)
	}
	body := string(resp.Body)
	if !strings.Contains(body, "&uarr; Parent Directory") {
		t.Errorf("listing missing parent link: %q", body)
	}
	if !strings.Contains(body, `<a href="./notes.txt">notes.txt</a>`) {
		t.Errorf("listing missing entry: %q", body)
	}
}

func TestHandleConnection_MissingIndexWithoutListingIs404(t *testing.T) {
	cfg := testConfig()
	cfg.Serve.ListDir = false

	store := memory.New()
	store.WriteFile("/notes.txt", []byte("some notes"))

	resp := handle(t, "GET", "/", cfg, store)

	if resp.Status.Code != 404 {
		t.Fatalf("Code = %d, want 404", resp.Status.Code)
	}
}

func TestHandleConnection_DirectoryListing(t *testing.T) {
	resp := handle(t, "GET", "/docs", testConfig(), seededStore())

	if resp.Status.Code != 200 {
		t.Fatalf("Code = %d, want 200", resp.Status.Code)
	}
	if resp.Mime != "text/html" {
		t.Errorf("Mime = %q, want text/html", resp.Mime)
	}

	body := string(resp.Body)
	apiIdx := strings.Index(body, "api.txt")
	guideIdx := strings.Index(body, "guide.html")
	if apiIdx < 0 || guideIdx < 0 {
		t.Fatalf("listing missing entries: %q", body)
	}
	if apiIdx > guideIdx {
		t.Error("listing entries must be sorted")
	}
}

func TestHandleConnection_DirectoryDeniedWhenListingDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Serve.ListDir = false

	resp := handle(t, "GET", "/docs", cfg, seededStore())

	if resp.Status.Code != 403 {
		t.Fatalf("Code = %d, want 403", resp.Status.Code)
	}
	if !strings.Contains(string(resp.Body), "Directory traversal is not allowed!") {
		t.Errorf("body missing denial text: %q", resp.Body)
	}
}

func TestHandleConnection_TraversalDenied(t *testing.T) {
	paths := []string{
		"/../etc/passwd",
		"/%2e%2e/%2e%2e/etc/passwd",
		"/..%2f..%2fetc/passwd",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			resp := handle(t, "GET", p, testConfig(), seededStore())

			// The memory store anchors at "/", so a plain "/.." climb
			// clamps back inside; these still must never 500 or leak.
			if resp.Status.Code != 403 && resp.Status.Code != 404 {
				t.Fatalf("Code = %d, want 403 or 404", resp.Status.Code)
			}
		})
	}
}

// trackingStore records whether any store method was reached. Its root is
// a real directory path, so lexical climbs out of it stay out.
type trackingStore struct {
	*memory.MemoryStore
	touched bool
}

func (s *trackingStore) Root() string { return "/srv/www" }

func (s *trackingStore) Stat(ctx context.Context, path string) (content.Info, error) {
	s.touched = true
	return s.MemoryStore.Stat(ctx, path)
}

func (s *trackingStore) Read(ctx context.Context, path string) ([]byte, error) {
	s.touched = true
	return s.MemoryStore.Read(ctx, path)
}

func (s *trackingStore) List(ctx context.Context, path string) ([]content.Entry, error) {
	s.touched = true
	return s.MemoryStore.List(ctx, path)
}

func TestHandleConnection_TraversalDeniedBeforeStoreAccess(t *testing.T) {
	store := &trackingStore{MemoryStore: memory.New()}

	req := &Request{Method: "GET", FilePath: "/../../etc/passwd"}
	resp := HandleConnection(context.Background(), req, testConfig(), store)

	if resp.Status.Code != 403 {
		t.Fatalf("Code = %d, want 403", resp.Status.Code)
	}
	if !strings.Contains(string(resp.Body), "Directory traversal is not allowed!") {
		t.Errorf("body missing denial text: %q", resp.Body)
	}
	if store.touched {
		t.Error("store must not be accessed for a denied path")
	}
}

func TestHandleConnection_MissingFileIs404(t *testing.T) {
	resp := handle(t, "GET", "/nope.txt", testConfig(), seededStore())

	if resp.Status.Code != 404 {
		t.Fatalf("Code = %d, want 404", resp.Status.Code)
	}
	if resp.Mime != "text/html" {
		t.Errorf("error page Mime = %q, want text/html", resp.Mime)
	}
	if !strings.Contains(string(resp.Body), "Not Found") {
		t.Errorf("body missing message: %q", resp.Body)
	}
}

func TestHandleConnection_PercentDecodedPath(t *testing.T) {
	store := memory.New()
	store.WriteFile("/my file.txt", []byte("spaced"))

	resp := handle(t, "GET", "/my%20file.txt", testConfig(), store)

	if resp.Status.Code != 200 {
		t.Fatalf("Code = %d, want 200", resp.Status.Code)
	}
	if string(resp.Body) != "spaced" {
		t.Errorf("Body = %q, want decoded file content", resp.Body)
	}
}
