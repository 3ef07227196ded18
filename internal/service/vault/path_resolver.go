package vault

import (
	"context"
	"fmt"
	"strings"
	"time"

	"keepsafe/internal/config"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
)

// pathResolver materializes relative directory paths for one upload batch.
//
// The cache maps "path so far" (root-relative, slash-joined) to the resolved
// folder id and is seeded with the empty path pointing at the batch's
// destination folder, so every distinct prefix is queried-or-created at most
// once no matter how many files land inside it. Two concurrent batches can
// still each create the same missing folder; that cross-batch race is
// accepted, duplicate sibling names are legal.
type pathResolver struct {
	folderRepo repositories.FolderRepository
	cache      map[string]*string
}

// newPathResolver creates a resolver scoped to a single batch rooted at
// destFolderID (nil = vault root).
func newPathResolver(folderRepo repositories.FolderRepository, destFolderID *string) *pathResolver {
	cache := make(map[string]*string)
	cache[""] = destFolderID
	return &pathResolver{
		folderRepo: folderRepo,
		cache:      cache,
	}
}

// Resolve maps a relative directory path to a folder id, creating missing
// folders along the way. An empty path resolves to the batch destination.
func (r *pathResolver) Resolve(ctx context.Context, relPath string) (*string, error) {
	relPath = strings.Trim(relPath, "/")
	if relPath == "" {
		return r.cache[""], nil
	}

	if err := validateRelativePath(relPath); err != nil {
		return nil, err
	}

	segments := strings.Split(relPath, "/")
	builtPath := ""
	currentParent := r.cache[""]

	for _, segment := range segments {
		if builtPath == "" {
			builtPath = segment
		} else {
			builtPath = builtPath + "/" + segment
		}

		if id, ok := r.cache[builtPath]; ok {
			currentParent = id
			continue
		}

		// Reuse an existing live folder before creating a new one, so a
		// batch never duplicates a path component that is already there.
		existing, err := r.folderRepo.FindByNameAndParent(ctx, segment, currentParent)
		if err != nil {
			return nil, fmt.Errorf("resolve folder %q: %w", segment, err)
		}

		if existing != nil {
			currentParent = &existing.ID
			r.cache[builtPath] = currentParent
			continue
		}

		now := time.Now()
		folder := &models.Folder{
			Name:      segment,
			ParentID:  currentParent,
			Color:     config.DefaultFolderColor,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.folderRepo.Create(ctx, folder); err != nil {
			return nil, fmt.Errorf("materialize folder %q: %w", segment, err)
		}

		currentParent = &folder.ID
		r.cache[builtPath] = currentParent
	}

	return currentParent, nil
}

// validateRelativePath rejects malformed upload paths before any backend
// call.
func validateRelativePath(path string) error {
	if len(path) > config.MaxRelativePathLength {
		return fmt.Errorf("%w: path exceeds maximum length of %d", domain.ErrValidation, config.MaxRelativePathLength)
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("%w: path cannot contain consecutive slashes", domain.ErrValidation)
	}
	for _, segment := range strings.Split(path, "/") {
		if strings.TrimSpace(segment) == "" {
			return fmt.Errorf("%w: path contains an empty segment", domain.ErrValidation)
		}
		if segment == "." || segment == ".." {
			return fmt.Errorf("%w: path cannot contain '.' or '..' segments", domain.ErrValidation)
		}
		if len(segment) > config.MaxFolderNameLength {
			return fmt.Errorf("%w: folder name %q exceeds maximum length of %d", domain.ErrValidation, segment, config.MaxFolderNameLength)
		}
	}
	return nil
}
