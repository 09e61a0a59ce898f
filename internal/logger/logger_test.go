package logger

import (
	"reflect"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want []interface{}
	}{
		{name: "empty", in: nil, want: nil},
		{name: "plain", in: []interface{}{"concepts", 12}, want: []interface{}{"concepts", 12}},
		{name: "password", in: []interface{}{"neo4j_password", "hunter2"}, want: []interface{}{"neo4j_password", "[REDACTED]"}},
		{name: "mixed case", in: []interface{}{"Redis_URL", "redis://:pw@host"}, want: []interface{}{"Redis_URL", "[REDACTED]"}},
		{name: "dangling key", in: []interface{}{"a", 1, "b"}, want: []interface{}{"a", 1, "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeKVs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sanitizeKVs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) error = %v", mode, err)
		}
		l.With("mode", mode).Debug("ok")
	}
	Nop().Info("discarded", "k", "v")
}
