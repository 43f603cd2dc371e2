package model

import "testing"

func TestExtractionStatusTransitions(t *testing.T) {
	legal := []struct{ from, to ExtractionStatus }{
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusFailed},
		{StatusFailed, StatusProcessing},
	}
	for _, tc := range legal {
		got, err := tc.from.Transition(tc.to)
		if err != nil {
			t.Fatalf("%s -> %s: unexpected error: %v", tc.from, tc.to, err)
		}
		if got != tc.to {
			t.Fatalf("%s -> %s: got %s", tc.from, tc.to, got)
		}
	}

	illegal := []struct{ from, to ExtractionStatus }{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusFailed},
		{StatusCompleted, StatusProcessing},
		{StatusCompleted, StatusFailed},
		{StatusFailed, StatusCompleted},
		{StatusProcessing, StatusPending},
	}
	for _, tc := range illegal {
		got, err := tc.from.Transition(tc.to)
		if err == nil {
			t.Fatalf("%s -> %s: expected error", tc.from, tc.to)
		}
		if got != tc.from {
			t.Fatalf("%s -> %s: status must not change on rejection, got %s", tc.from, tc.to, got)
		}
	}
}

func TestExtractionStatusTransition_UnknownTarget(t *testing.T) {
	if _, err := StatusPending.Transition(ExtractionStatus("paused")); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestAllowedFileTypes(t *testing.T) {
	for _, ft := range []string{"pdf", "docx", "doc", "xlsx", "xls", "txt"} {
		if !AllowedFileTypes[ft] {
			t.Fatalf("%s must be allowed", ft)
		}
	}
	for _, ft := range []string{"rtf", "pptx", "exe", ""} {
		if AllowedFileTypes[ft] {
			t.Fatalf("%s must not be allowed", ft)
		}
	}
}

func TestFileSizeDisplay(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{512, "512.00 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}
	for _, tc := range cases {
		q := Questionnaire{FileSize: tc.size}
		if got := q.FileSizeDisplay(); got != tc.want {
			t.Fatalf("FileSizeDisplay(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestSectionOrderAndSeeds(t *testing.T) {
	if len(SectionOrder) != 6 {
		t.Fatalf("expected 6 section configs, got %d", len(SectionOrder))
	}
	if SectionOrder[0].Name != TypeIdentification {
		t.Fatalf("identification must lead the section order, got %q", SectionOrder[0].Name)
	}
	seeds := SeedQuestionTypes()
	if len(seeds) != len(SectionOrder) {
		t.Fatalf("seed rows must mirror the section order")
	}
	for _, s := range seeds {
		if !KnownTypeName(s.Name) {
			t.Fatalf("seeded type %q not recognized", s.Name)
		}
		if !s.IsActive {
			t.Fatalf("seeded type %q must be active", s.Name)
		}
	}
	if KnownTypeName("riddle") {
		t.Fatalf("unknown type must not be recognized")
	}
}
