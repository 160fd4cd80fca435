package postgres

import (
	"errors"
	"testing"

	"cypress/internal/domain"
)

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	if tables.Workspaces != "test_workspaces" {
		t.Errorf("Workspaces = %q, want test_workspaces", tables.Workspaces)
	}
	if tables.Collaborators != "test_collaborators" {
		t.Errorf("Collaborators = %q, want test_collaborators", tables.Collaborators)
	}

	bare := NewTableNames("")
	if bare.Files != "files" {
		t.Errorf("Files = %q, want files", bare.Files)
	}
}

func TestValidateID(t *testing.T) {
	if err := validateID("123e4567-e89b-12d3-a456-426614174000"); err != nil {
		t.Errorf("valid UUID rejected: %v", err)
	}

	for _, bad := range []string{"", "not-a-uuid", "123", "123e4567e89b12d3a456426614174000x"} {
		err := validateID(bad)
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("validateID(%q) error = %v, want ErrInvalidID", bad, err)
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("validateID(%q) should also match ErrValidation", bad)
		}
	}
}
