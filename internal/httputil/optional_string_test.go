package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalStringTriState(t *testing.T) {
	type payload struct {
		Banner OptionalString `json:"banner"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNil     bool
		wantValue   string
	}{
		{"absent", `{}`, false, true, ""},
		{"null clears", `{"banner":null}`, true, true, ""},
		{"empty string", `{"banner":""}`, true, false, ""},
		{"value", `{"banner":"covers/a.jpg"}`, true, false, "covers/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.Banner.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", p.Banner.Present, tt.wantPresent)
			}
			if (p.Banner.Value == nil) != tt.wantNil {
				t.Fatalf("Value nil = %v, want %v", p.Banner.Value == nil, tt.wantNil)
			}
			if p.Banner.Value != nil && *p.Banner.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", *p.Banner.Value, tt.wantValue)
			}

			n := p.Banner.Nullable()
			if n.Set != tt.wantPresent {
				t.Errorf("Nullable().Set = %v, want %v", n.Set, tt.wantPresent)
			}
		})
	}
}
