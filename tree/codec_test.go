package tree

import "testing"

func TestJSONCodec_Unmarshal(t *testing.T) {
	var doc Document
	if err := (JSONCodec{}).Unmarshal([]byte(`{"name": "test", "value": 42}`), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc["name"] != "test" {
		t.Errorf("expected name 'test', got %v", doc["name"])
	}
	if doc["value"] != float64(42) {
		t.Errorf("expected value 42, got %v", doc["value"])
	}
}

func TestJSONCodec_UnmarshalInvalid(t *testing.T) {
	var doc Document
	if err := (JSONCodec{}).Unmarshal([]byte(`{not valid json}`), &doc); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestYAMLCodec_Unmarshal(t *testing.T) {
	var doc Document
	if err := (YAMLCodec{}).Unmarshal([]byte("name: test\nnested:\n  value: 42"), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc["name"] != "test" {
		t.Errorf("expected name 'test', got %v", doc["name"])
	}
	nested, ok := doc["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map[string]any, got %T", doc["nested"])
	}
	if nested["value"] != 42 {
		t.Errorf("expected value 42, got %v", nested["value"])
	}
}

func TestCodec_ContentType(t *testing.T) {
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("expected 'application/json', got %q", ct)
	}
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("expected 'application/x-yaml', got %q", ct)
	}
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		format, path string
		want         string
	}{
		{"", "state.yaml", "application/x-yaml"},
		{"", "state.YML", "application/x-yaml"},
		{"", "state.json", "application/json"},
		{"", "state", "application/json"},
		{"yaml", "state.json", "application/x-yaml"},
		{"JSON", "state.yaml", "application/json"},
	}
	for _, tt := range tests {
		if got := CodecFor(tt.format, tt.path).ContentType(); got != tt.want {
			t.Errorf("CodecFor(%q, %q): expected %s, got %s", tt.format, tt.path, tt.want, got)
		}
	}
}
