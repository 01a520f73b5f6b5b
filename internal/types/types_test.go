package types

import (
	"errors"
	"testing"
)

func TestNormalizeSectionKey(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple lowercase",
			title: "education",
			want:  "education",
		},
		{
			name:  "uppercase with space",
			title: "WORK EXPERIENCE",
			want:  "work_experience",
		},
		{
			name:  "mixed case",
			title: "Professional Summary",
			want:  "professional_summary",
		},
		{
			name:  "punctuation run collapses",
			title: "Honors & Awards",
			want:  "honors_awards",
		},
		{
			name:  "leading and trailing junk trimmed",
			title: "  Skills!  ",
			want:  "skills",
		},
		{
			name:  "symbols inside word",
			title: "C++ Skills",
			want:  "c_skills",
		},
		{
			name:  "digits kept",
			title: "Top 10 Projects",
			want:  "top_10_projects",
		},
		{
			name:  "only punctuation",
			title: "---",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSectionKey(tt.title)
			if got.String() != tt.want {
				t.Errorf("NormalizeSectionKey(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if tt.want != "" && !got.Valid() {
				t.Errorf("NormalizeSectionKey(%q) = %q is not a valid key", tt.title, got)
			}
		})
	}
}

func TestSectionKeyValid(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"education", true},
		{"work_experience", true},
		{"top_10_projects", true},
		{"", false},
		{"Work_Experience", false},
		{"work__experience", false},
		{"_education", false},
		{"education_", false},
		{"work experience", false},
		{"skills!", false},
	}

	for _, tt := range tests {
		if got := SectionKey(tt.key).Valid(); got != tt.want {
			t.Errorf("SectionKey(%q).Valid() = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError(ErrConfig, "failed to save config", cause)

	if err.Error() != "failed to save config" {
		t.Errorf("Error() = %q, want %q", err.Error(), "failed to save config")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var appErr *AppError
	if !errors.As(error(err), &appErr) {
		t.Fatal("errors.As should match *AppError")
	}
	if appErr.Code != ErrConfig {
		t.Errorf("Code = %q, want %q", appErr.Code, ErrConfig)
	}
}

func TestAppErrorWithDetails(t *testing.T) {
	err := NewAppErrorWithDetails(ErrFormatUnknown, "unknown format id", "fancy", nil)

	want := "unknown format id: fancy"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil without a cause")
	}
}
