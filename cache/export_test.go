package cache

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-redis/redismock/v9"
)

func TestExporter_Export(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set("key2", "पानी")
	c.Set("key1", "नमस्ते")

	var buf bytes.Buffer
	if err := NewExporter(c).Export(&buf, map[string]string{"target": "hindi"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if export.Version != ExportVersion {
		t.Errorf("Version = %s", export.Version)
	}
	if !strings.HasPrefix(export.Generator, "desi/") {
		t.Errorf("Generator = %s", export.Generator)
	}
	if len(export.Entries) != 2 || export.Entries[0].Key != "key1" {
		t.Errorf("Entries = %+v", export.Entries)
	}
	if export.Metadata["target"] != "hindi" {
		t.Errorf("Metadata = %v", export.Metadata)
	}
	// non-ASCII text is written as is
	if !strings.Contains(buf.String(), "नमस्ते") {
		t.Error("expected unescaped Devanagari in export")
	}
}

func TestExporter_Redis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, 0, "test:")
	mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:a", "test:gone"}, 0)
	mock.ExpectGet("test:a").SetVal("1")
	mock.ExpectGet("test:gone").RedisNil()

	var buf bytes.Buffer
	if err := NewExporter(c).Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	json.Unmarshal(buf.Bytes(), &export)
	if len(export.Entries) != 1 || export.Entries[0].Value != "1" {
		t.Errorf("Entries = %+v", export.Entries)
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "1.0",
		"exported_at": "2026-01-01T00:00:00Z",
		"entries": [
			{"key": "key1", "value": "value1"},
			{"key": "key2", "value": "value2"},
			{"key": "", "value": "orphan"}
		],
		"metadata": {"target": "tamil"}
	}`

	c := NewInMemoryCache(3600)
	result, err := NewImporter(c).Import(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 || result.Skipped != 1 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Metadata["target"] != "tamil" {
		t.Errorf("Metadata = %v", result.Metadata)
	}
	if val, ok := c.Get("key2"); !ok || val != "value2" {
		t.Errorf("key2 = %q, %v", val, ok)
	}
}

func TestImporter_RejectsUnknownVersion(t *testing.T) {
	_, err := NewImporter(NewInMemoryCache(0)).Import(strings.NewReader(`{"version": "9.0", "entries": []}`))
	if err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	_, err := NewImporter(NewInMemoryCache(3600)).Import(strings.NewReader("invalid json"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestExportImport_File(t *testing.T) {
	src := NewInMemoryCache(3600)
	src.Set("hash1:en:hindi", `{"translated_text":"नमस्ते"}`)
	src.Set("hash2:en:hindi", `{"translated_text":"पानी"}`)

	path := filepath.Join(t.TempDir(), "cache.json")
	if err := NewExporter(src).ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	dst := NewInMemoryCache(3600)
	result, err := NewImporter(dst).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if val, ok := dst.Get("hash1:en:hindi"); !ok || val != `{"translated_text":"नमस्ते"}` {
		t.Errorf("hash1 = %q, %v", val, ok)
	}
}
