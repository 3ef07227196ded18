package vault

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"keepsafe/internal/config"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
	"keepsafe/internal/domain/services"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// CreateFolder creates a new folder. Sibling name duplicates are allowed.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	// If a parent is specified, verify it exists and is live
	if req.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent folder not found: %w", err)
		}
		if parent.IsDeleted {
			return nil, fmt.Errorf("%w: parent folder is in trash", domain.ErrValidation)
		}
	}

	color := req.Color
	if color == "" {
		color = config.DefaultFolderColor
	}

	now := time.Now()
	folder := &models.Folder{
		Name:      req.Name,
		ParentID:  req.ParentID,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder by ID regardless of deleted state.
func (s *folderService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

// ListContents fetches one level of the live tree.
func (s *folderService) ListContents(ctx context.Context, parentID *string) (*services.FolderContents, error) {
	var folder *models.Folder

	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	if parentID != nil {
		var err error
		folder, err = s.folderRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if folder.IsDeleted {
			return nil, fmt.Errorf("%w: folder is in trash", domain.ErrNotFound)
		}
	}

	folders, err := s.folderRepo.ListChildren(ctx, parentID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	files, err := s.fileRepo.ListByParent(ctx, parentID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return &services.FolderContents{
		Folder:  folder,
		Folders: folders,
		Files:   files,
	}, nil
}

// SetColor updates the folder's display color tag.
func (s *folderService) SetColor(ctx context.Context, id, color string) (*models.Folder, error) {
	if err := validation.Validate(color,
		validation.Required,
		validation.Match(colorPattern).Error("color must be a hex value like #3b82f6"),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.folderRepo.UpdateColor(ctx, id, color); err != nil {
		return nil, err
	}

	folder.Color = color
	folder.UpdatedAt = time.Now()

	s.logger.Info("folder color updated", "id", id, "color", color)

	return folder, nil
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(regexp.MustCompile(`^[^/]+$`)).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.Color,
			validation.Match(colorPattern).Error("color must be a hex value like #3b82f6"),
		),
	)
}
