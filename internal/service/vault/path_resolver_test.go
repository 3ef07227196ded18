package vault

import (
	"context"
	"errors"
	"testing"

	"keepsafe/internal/domain"
)

func TestPathResolver_EmptyPathIsDestination(t *testing.T) {
	repo := newMemFolderRepo()
	dest := strPtr("dest-folder")
	r := newPathResolver(repo, dest)

	got, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == nil || *got != "dest-folder" {
		t.Errorf("Resolve(\"\") = %v, want dest-folder", got)
	}
	if repo.createCalls != 0 || repo.findCalls != 0 {
		t.Error("empty path should not touch the repository")
	}
}

func TestPathResolver_CreatesMissingChain(t *testing.T) {
	repo := newMemFolderRepo()
	r := newPathResolver(repo, nil)

	id, err := r.Resolve(context.Background(), "photos/2026/march")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id == nil {
		t.Fatal("Resolve() returned nil folder id")
	}
	if repo.createCalls != 3 {
		t.Errorf("createCalls = %d, want 3", repo.createCalls)
	}

	leaf, err := repo.GetByID(context.Background(), *id)
	if err != nil {
		t.Fatalf("leaf folder missing: %v", err)
	}
	if leaf.Name != "march" {
		t.Errorf("leaf name = %q, want %q", leaf.Name, "march")
	}
	if leaf.Color == "" {
		t.Error("materialized folder has no default color")
	}
}

func TestPathResolver_DistinctPrefixQueriedOncePerBatch(t *testing.T) {
	repo := newMemFolderRepo()
	r := newPathResolver(repo, nil)
	ctx := context.Background()

	paths := []string{"a/b", "a/b", "a/b/c", "a"}
	var ids []string
	for _, p := range paths {
		id, err := r.Resolve(ctx, p)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", p, err)
		}
		ids = append(ids, *id)
	}

	// Prefixes a, a/b, a/b/c: one create each, one lookup each, never more.
	if repo.createCalls != 3 {
		t.Errorf("createCalls = %d, want 3", repo.createCalls)
	}
	if repo.findCalls != 3 {
		t.Errorf("findCalls = %d, want 3", repo.findCalls)
	}

	if ids[0] != ids[1] {
		t.Error("repeated path resolved to different folders within one batch")
	}
}

func TestPathResolver_ReusesExistingLiveFolder(t *testing.T) {
	repo := newMemFolderRepo()
	ctx := context.Background()

	r1 := newPathResolver(repo, nil)
	first, err := r1.Resolve(ctx, "docs")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// A second batch finds the folder instead of creating a duplicate.
	r2 := newPathResolver(repo, nil)
	second, err := r2.Resolve(ctx, "docs")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if *first != *second {
		t.Errorf("second batch created a new folder: %s != %s", *first, *second)
	}
	if repo.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", repo.createCalls)
	}
}

func TestPathResolver_IgnoresTrashedFolders(t *testing.T) {
	repo := newMemFolderRepo()
	ctx := context.Background()

	r1 := newPathResolver(repo, nil)
	trashed, err := r1.Resolve(ctx, "docs")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := repo.SetDeletedBatch(ctx, []string{*trashed}, true); err != nil {
		t.Fatalf("SetDeletedBatch() error = %v", err)
	}

	r2 := newPathResolver(repo, nil)
	fresh, err := r2.Resolve(ctx, "docs")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if *fresh == *trashed {
		t.Error("resolver reused a trashed folder")
	}
}

func TestPathResolver_RejectsMalformedPaths(t *testing.T) {
	repo := newMemFolderRepo()
	r := newPathResolver(repo, nil)
	ctx := context.Background()

	for _, path := range []string{"a//b", "a/../b", "a/./b", "a/ /b"} {
		if _, err := r.Resolve(ctx, path); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Resolve(%q) error = %v, want ErrValidation", path, err)
		}
	}
	if repo.createCalls != 0 {
		t.Error("malformed paths must be rejected before any create")
	}
}
