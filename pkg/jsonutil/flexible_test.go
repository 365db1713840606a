package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestFloat64_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"number", `0.35`, 0.35, false},
		{"integer", `42`, 42, false},
		{"numeric string", `"0.35"`, 0.35, false},
		{"padded numeric string", `" 12.5 "`, 12.5, false},
		{"null is zero", `null`, 0, false},
		{"non-numeric string", `"abc"`, 0, true},
		{"object", `{"v":1}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Float64
			err := json.Unmarshal([]byte(tt.input), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && f.Value() != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, f.Value(), tt.want)
			}
		})
	}
}

func TestFloat64_InStruct(t *testing.T) {
	type payload struct {
		Margin *Float64 `json:"profitMargin"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"profitMargin":"0.30"}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Margin == nil || p.Margin.Value() != 0.30 {
		t.Errorf("Margin = %v, want 0.30", p.Margin)
	}

	var missing payload
	if err := json.Unmarshal([]byte(`{}`), &missing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing.Margin != nil {
		t.Errorf("Margin = %v, want nil for missing field", missing.Margin)
	}
}
