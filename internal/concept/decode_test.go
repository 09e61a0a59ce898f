package concept

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/scigraph/kg/internal/record"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      Concept
		wantKind  string
		wantField string
	}{
		{
			name: "full record",
			raw: `{"concept_name":"Heat","domain":"Physics (The Physical World)","strand":"Energy",
				"brief_explanation":"Form of energy.","chapter_references":["Ch 7"],
				"cognitive_level":"Understand","interconnections":["Temperature"]}`,
			want: Concept{
				Name:              "Heat",
				Domain:            "Physics (The Physical World)",
				Strand:            "Energy",
				BriefExplanation:  "Form of energy.",
				ChapterReferences: []string{"Ch 7"},
				CognitiveLevel:    "Understand",
				Interconnections:  []string{"Temperature"},
			},
		},
		{
			name: "optional fields default",
			raw:  `{"concept_name":"Heat","domain":"Physics","strand":"Energy"}`,
			want: Concept{Name: "Heat", Domain: "Physics", Strand: "Energy"},
		},
		{
			name:      "missing name",
			raw:       `{"domain":"Physics","strand":"Energy"}`,
			wantKind:  record.KindMissingField,
			wantField: "concept_name",
		},
		{
			name:      "missing strand",
			raw:       `{"concept_name":"Heat","domain":"Physics"}`,
			wantKind:  record.KindMissingField,
			wantField: "strand",
		},
		{
			name:      "interconnections not a list",
			raw:       `{"concept_name":"Heat","domain":"Physics","strand":"Energy","interconnections":"Temperature"}`,
			wantKind:  record.KindWrongType,
			wantField: "interconnections",
		},
		{
			name:     "not an object",
			raw:      `"Heat"`,
			wantKind: record.KindNotObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(4, json.RawMessage(tt.raw))
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("Decode() = %+v, want %+v", got, tt.want)
				}
				return
			}

			var me *record.MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("Decode() error = %v, want *record.MalformedError", err)
			}
			if me.Kind != tt.wantKind || me.Field != tt.wantField {
				t.Errorf("got kind=%s field=%s, want kind=%s field=%s", me.Kind, me.Field, tt.wantKind, tt.wantField)
			}
			if me.Collection != Collection || me.Position != 4 {
				t.Errorf("got collection=%s position=%d", me.Collection, me.Position)
			}
		})
	}
}

func TestDecode_RequiredFieldsUseValidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   error
		wantField string
	}{
		{"blank name", `{"concept_name":"  ","domain":"Physics","strand":"Energy"}`, ErrEmptyName, "concept_name"},
		{"null domain", `{"concept_name":"Heat","domain":null,"strand":"Energy"}`, ErrEmptyDomain, "domain"},
		{"missing strand", `{"concept_name":"Heat","domain":"Physics"}`, ErrEmptyStrand, "strand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(0, json.RawMessage(tt.raw))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v in chain", err, tt.wantErr)
			}
			if !errors.Is(err, record.ErrMalformed) {
				t.Errorf("Decode() error = %v, want record.ErrMalformed in chain", err)
			}
			var me *record.MalformedError
			if errors.As(err, &me) && me.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", me.Field, tt.wantField)
			}
		})
	}
}
