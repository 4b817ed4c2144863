package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tests := []struct {
		name        string
		curl        string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name: "single quoted headers",
			curl: `curl 'https://mediux.pro/sets/123' \
  -H 'accept: text/html' \
  -H 'user-agent: Mozilla/5.0'`,
			wantHeaders: map[string]string{
				"accept":     "text/html",
				"user-agent": "Mozilla/5.0",
			},
		},
		{
			name: "double quoted headers",
			curl: `curl "https://theposterdb.com/set/9000" -H "accept: */*" -H "referer: https://theposterdb.com/"`,
			wantHeaders: map[string]string{
				"accept":  "*/*",
				"referer": "https://theposterdb.com/",
			},
		},
		{
			name:       "cookie flag",
			curl:       `curl 'https://mediux.pro/' -H 'accept: text/html' -b 'session=abc123; theme=dark'`,
			wantCookie: "session=abc123; theme=dark",
			wantHeaders: map[string]string{
				"accept": "text/html",
			},
		},
		{
			name:       "cookie header",
			curl:       `curl 'https://mediux.pro/' -H 'cookie: session=xyz789'`,
			wantCookie: "session=xyz789",
		},
		{
			name:    "no headers",
			curl:    `curl 'https://example.com'`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseCurlCommand([]byte(tt.curl))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for key, want := range tt.wantHeaders {
				if got := parsed.Headers[key]; got != want {
					t.Errorf("header %q = %q, want %q", key, got, want)
				}
			}

			if parsed.Cookie != tt.wantCookie {
				t.Errorf("cookie = %q, want %q", parsed.Cookie, tt.wantCookie)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "headers.sh")

	curl := `curl 'https://mediux.pro/sets/123' \
  -H 'accept: text/html' \
  -b 'session=filetest'`

	if err := os.WriteFile(path, []byte(curl), 0644); err != nil {
		t.Fatalf("failed to write curl file: %v", err)
	}

	parsed, err := ParseCurlFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Cookie != "session=filetest" {
		t.Errorf("cookie = %q, want session=filetest", parsed.Cookie)
	}

	if _, err := ParseCurlFile(filepath.Join(dir, "missing.sh")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToHeaderMap(t *testing.T) {
	parsed := &CurlHeaders{
		Headers: map[string]string{
			"accept":     "text/html",
			"user-agent": "Mozilla/5.0",
		},
		Cookie: "session=abc",
	}

	m := parsed.ToHeaderMap()

	if len(m) != 3 {
		t.Errorf("expected 3 entries, got %d", len(m))
	}
	if m["Cookie"] != "session=abc" {
		t.Errorf("expected cookie folded into map, got %q", m["Cookie"])
	}
	if !strings.Contains(m["user-agent"], "Mozilla") {
		t.Errorf("user-agent missing: %v", m)
	}

	t.Run("no cookie", func(t *testing.T) {
		m := (&CurlHeaders{Headers: map[string]string{"accept": "*/*"}}).ToHeaderMap()
		if _, ok := m["Cookie"]; ok {
			t.Error("Cookie key should be absent when no cookie parsed")
		}
	})
}
