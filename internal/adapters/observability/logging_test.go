package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestNewLogger_JSONCarriesService(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "catalog-api")
	l.Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("prod logs must be JSON: %v (%q)", err, buf.String())
	}
	if line["service"] != "catalog-api" || line["message"] != "hello" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestNewLogger_DevIsConsole(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "dev", "web")
	l.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("dev logs should be console formatted, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("non-terminal output must not be colourised: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "service=web") {
		t.Fatalf("missing service field: %q", buf.String())
	}
}

func TestIsTerminal_NonFileWriters(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Fatal("a buffer is not a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Fatal("a regular file is not a terminal")
	}
}
