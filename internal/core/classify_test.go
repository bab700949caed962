package core

import (
	"reflect"
	"testing"
)

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    Classification
	}{
		{
			name: "backbone circuits are excluded everywhere",
			records: []Record{
				{CID: "OC-900001-123", Label: "Core"},
				{CID: "oc-900001", Label: "lowercase still excluded"},
			},
			want: Classification{},
		},
		{
			name: "wavelength match beats OC and 3POC prefixes",
			records: []Record{
				{CID: "OC-WL-77", Label: "ignored label"},
				{CID: "3POC-WLP-5", Label: "also ignored"},
			},
			want: Classification{WLWLP: []string{"3POC-WLP-5", "OC-WL-77"}},
		},
		{
			name: "wavelength entries list the raw identifier without label",
			records: []Record{
				{CID: "WL-1", Label: "SiteA"},
				{CID: "wlp-2", Label: "SiteB"},
			},
			want: Classification{WLWLP: []string{"WL-1", "wlp-2"}},
		},
		{
			name: "3POC beats plain OC ordering is by rule not by prefix length",
			records: []Record{
				{CID: "3POC-9", Label: "Partner"},
				{CID: "OC-1", Label: "SiteA"},
			},
			want: Classification{
				OC:   []string{"OC-1 (SiteA)"},
				POC3: []string{"3POC-9 (Partner)"},
			},
		},
		{
			name: "label-less entries render without parentheses",
			records: []Record{
				{CID: "OC-1", Label: ""},
				{CID: "3POC-2", Label: ""},
			},
			want: Classification{
				OC:   []string{"OC-1"},
				POC3: []string{"3POC-2"},
			},
		},
		{
			name: "unmatched identifiers are dropped",
			records: []Record{
				{CID: "XYZ-1", Label: "Other"},
				{CID: "OC-1", Label: "SiteA"},
			},
			want: Classification{OC: []string{"OC-1 (SiteA)"}},
		},
		{
			name: "duplicates collapse and output is sorted",
			records: []Record{
				{CID: "OC-2", Label: "B"},
				{CID: "OC-1", Label: "A"},
				{CID: "OC-2", Label: "B"},
			},
			want: Classification{OC: []string{"OC-1 (A)", "OC-2 (B)"}},
		},
		{
			name:    "no records",
			records: nil,
			want:    Classification{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.records)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassification_Empty(t *testing.T) {
	if !(Classification{}).Empty() {
		t.Error("zero Classification should be empty")
	}
	if (Classification{OC: []string{"OC-1"}}).Empty() {
		t.Error("Classification with an OC entry should not be empty")
	}
}
