package writer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type testData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestJSONWriter_Write(t *testing.T) {
	data := testData{Name: "test", Value: 42}

	t.Run("compact output", func(t *testing.T) {
		w := NewJSONWriter[testData]()
		var buf bytes.Buffer
		err := w.Write(data, &buf)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		expected := `{"name":"test","value":42}` + "\n"
		if buf.String() != expected {
			t.Errorf("got %q, want %q", buf.String(), expected)
		}
	})

	t.Run("pretty output", func(t *testing.T) {
		w := NewPrettyJSONWriter[testData]()
		var buf bytes.Buffer
		err := w.Write(data, &buf)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		var decoded testData
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode output: %v", err)
		}
		if decoded != data {
			t.Errorf("decoded data mismatch: got %+v, want %+v", decoded, data)
		}
	})
}

func TestJSONWriter_WriteToFile(t *testing.T) {
	data := testData{Name: "test", Value: 42}
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "test.json")

	w := NewJSONWriter[testData]()
	err := w.WriteToFile(data, filePath)
	if err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	var decoded testData
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("Failed to decode file: %v", err)
	}
	if decoded != data {
		t.Errorf("decoded data mismatch: got %+v, want %+v", decoded, data)
	}
}
