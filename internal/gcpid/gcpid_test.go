package gcpid

import (
	"strings"
	"testing"
)

func TestGeneric(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr string
	}{
		{
			name: "simple",
			id:   "mytable",
		},
		{
			name: "underscore start",
			id:   "_staging",
		},
		{
			name: "with digits",
			id:   "events_2024",
		},
		{
			name:    "empty",
			id:      "",
			wantErr: "cannot be empty",
		},
		{
			name:    "digit start",
			id:      "2024_events",
			wantErr: "must start with a letter or underscore",
		},
		{
			name:    "with hyphen",
			id:      "my-table",
			wantErr: "must start with a letter or underscore",
		},
		{
			name:    "with dot",
			id:      "my.table",
			wantErr: "must start with a letter or underscore",
		},
		{
			name:    "with backtick",
			id:      "mytable`; DROP TABLE users; --",
			wantErr: "must start with a letter or underscore",
		},
		{
			name:    "with space",
			id:      "my table",
			wantErr: "must start with a letter or underscore",
		},
		{
			name:    "too long",
			id:      strings.Repeat("a", 1025),
			wantErr: "cannot exceed 1024",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generic(tt.id, "table_id")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Generic(%q) returned error: %v", tt.id, err)
				}
				if got != tt.id {
					t.Errorf("Generic(%q) = %q, want input unchanged", tt.id, got)
				}
				return
			}
			if err == nil {
				t.Fatalf("Generic(%q) expected error containing %q, got nil", tt.id, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Generic(%q) error = %q, want containing %q", tt.id, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "my-project"},
		{name: "with digits", id: "project-123"},
		{name: "project number", id: "123456789012"},
		{name: "empty", id: "", wantErr: true},
		{name: "uppercase", id: "My-Project", wantErr: true},
		{name: "trailing hyphen", id: "my-project-", wantErr: true},
		{name: "digit start non numeric", id: "1project", wantErr: true},
		{name: "with slash", id: "my/project", wantErr: true},
		{name: "single letter", id: "p", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Project(%q) expected error, got nil", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("Project(%q) returned error: %v", tt.id, err)
			}
			if got != tt.id {
				t.Errorf("Project(%q) = %q, want input unchanged", tt.id, got)
			}
		})
	}
}

func TestSecret(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "api-key"},
		{name: "with underscore", id: "API_KEY"},
		{name: "digit start", id: "0secret"},
		{name: "max length", id: strings.Repeat("a", 255)},
		{name: "empty", id: "", wantErr: true},
		{name: "leading hyphen", id: "-secret", wantErr: true},
		{name: "leading underscore", id: "_secret", wantErr: true},
		{name: "with dot", id: "my.secret", wantErr: true},
		{name: "with slash", id: "my/secret", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 256), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Secret(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Secret(%q) expected error, got nil", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("Secret(%q) returned error: %v", tt.id, err)
			}
			if got != tt.id {
				t.Errorf("Secret(%q) = %q, want input unchanged", tt.id, got)
			}
		})
	}
}
