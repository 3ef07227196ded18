package vault

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
)

// memFolderRepo is an in-memory FolderRepository for service tests.
type memFolderRepo struct {
	folders     map[string]*models.Folder
	createCalls int
	findCalls   int
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *memFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.createCalls++
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *memFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memFolderRepo) FindByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	r.findCalls++
	for _, f := range r.folders {
		if f.Name == name && sameParent(f.ParentID, parentID) && !f.IsDeleted {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memFolderRepo) ListChildren(ctx context.Context, parentID *string, deleted bool) ([]models.Folder, error) {
	out := make([]models.Folder, 0)
	for _, f := range r.folders {
		if sameParent(f.ParentID, parentID) && f.IsDeleted == deleted {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFolderRepo) ListTrashed(ctx context.Context) ([]models.Folder, error) {
	out := make([]models.Folder, 0)
	for _, f := range r.folders {
		if f.IsDeleted {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DeletedAt != nil && out[j].DeletedAt != nil && out[i].DeletedAt.After(*out[j].DeletedAt)
	})
	return out, nil
}

func (r *memFolderRepo) ListChildIDs(ctx context.Context, parentID string) ([]string, error) {
	out := make([]string, 0)
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, f.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memFolderRepo) UpdateColor(ctx context.Context, id, color string) error {
	f, ok := r.folders[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.Color = color
	f.UpdatedAt = time.Now()
	return nil
}

func (r *memFolderRepo) SetDeletedBatch(ctx context.Context, ids []string, deleted bool) error {
	now := time.Now()
	for _, id := range ids {
		if f, ok := r.folders[id]; ok {
			f.IsDeleted = deleted
			if deleted {
				f.DeletedAt = &now
			} else {
				f.DeletedAt = nil
			}
		}
	}
	return nil
}

func (r *memFolderRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return domain.ErrNotFound
	}
	// Cascade like the FK constraint would.
	children, _ := r.ListChildIDs(ctx, id)
	for _, c := range children {
		_ = r.Delete(ctx, c)
	}
	delete(r.folders, id)
	return nil
}

func (r *memFolderRepo) DeleteBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_ = r.Delete(ctx, id)
	}
	return nil
}

// memFileRepo is an in-memory FileRepository.
type memFileRepo struct {
	files map[string]*models.FileItem
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[string]*models.FileItem)}
}

func (r *memFileRepo) Create(ctx context.Context, file *models.FileItem) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	cp := *file
	r.files[file.ID] = &cp
	return nil
}

func (r *memFileRepo) GetByID(ctx context.Context, id string) (*models.FileItem, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memFileRepo) ListByParent(ctx context.Context, parentID *string, deleted bool) ([]models.FileItem, error) {
	out := make([]models.FileItem, 0)
	for _, f := range r.files {
		if sameParent(f.ParentFolderID, parentID) && f.IsDeleted == deleted {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memFileRepo) ListTrashed(ctx context.Context) ([]models.FileItem, error) {
	out := make([]models.FileItem, 0)
	for _, f := range r.files {
		if f.IsDeleted {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *memFileRepo) ListByFolders(ctx context.Context, folderIDs []string) ([]models.FileItem, error) {
	set := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		set[id] = true
	}
	out := make([]models.FileItem, 0)
	for _, f := range r.files {
		if f.ParentFolderID != nil && set[*f.ParentFolderID] {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *memFileRepo) SetDeleted(ctx context.Context, id string, deleted bool) error {
	f, ok := r.files[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.flip(f, deleted)
	return nil
}

func (r *memFileRepo) SetDeletedBatch(ctx context.Context, ids []string, deleted bool) error {
	for _, id := range ids {
		if f, ok := r.files[id]; ok {
			r.flip(f, deleted)
		}
	}
	return nil
}

func (r *memFileRepo) SetDeletedByFolders(ctx context.Context, folderIDs []string, deleted bool) error {
	set := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		set[id] = true
	}
	for _, f := range r.files {
		if f.ParentFolderID != nil && set[*f.ParentFolderID] {
			r.flip(f, deleted)
		}
	}
	return nil
}

func (r *memFileRepo) flip(f *models.FileItem, deleted bool) {
	f.IsDeleted = deleted
	if deleted {
		now := time.Now()
		f.DeletedAt = &now
	} else {
		f.DeletedAt = nil
	}
}

func (r *memFileRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.files[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *memFileRepo) DeleteBatch(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.files, id)
	}
	return nil
}

// memShareRepo is an in-memory ShareRepository.
type memShareRepo struct {
	shares []models.FolderShare
}

func (r *memShareRepo) Grant(ctx context.Context, share *models.FolderShare) error {
	for _, s := range r.shares {
		if s.FolderID == share.FolderID && s.SharedEmail == share.SharedEmail {
			return &domain.ConflictError{
				Message:      "folder is already shared with this email",
				ResourceType: "share",
				ResourceID:   s.ID,
			}
		}
	}
	if share.ID == "" {
		share.ID = uuid.NewString()
	}
	r.shares = append(r.shares, *share)
	return nil
}

func (r *memShareRepo) ListByFolder(ctx context.Context, folderID string) ([]models.FolderShare, error) {
	out := make([]models.FolderShare, 0)
	for _, s := range r.shares {
		if s.FolderID == folderID {
			out = append(out, s)
		}
	}
	return out, nil
}

// memBlobStore records blob operations; Put drains the reader so upload
// semantics match a real store.
type memBlobStore struct {
	blobs        map[string][]byte
	contentTypes map[string]string
	removeCalls  [][]string
	failPut      bool
	failRemove   bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{
		blobs:        make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (b *memBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if b.failPut {
		return domain.ErrValidation
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.blobs[key] = data
	b.contentTypes[key] = contentType
	return nil
}

func (b *memBlobStore) Remove(ctx context.Context, keys []string) error {
	b.removeCalls = append(b.removeCalls, keys)
	if b.failRemove {
		return context.DeadlineExceeded
	}
	for _, k := range keys {
		delete(b.blobs, k)
	}
	return nil
}

func (b *memBlobStore) SignedURL(ctx context.Context, key string, ttl time.Duration, disposition repositories.Disposition, filename string) (string, error) {
	return "https://blobs.test/" + key + "?disposition=" + string(disposition), nil
}

// passthroughTx runs the function directly; the in-memory repos have no
// transaction concept.
type passthroughTx struct {
	calls int
}

func (t *passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	t.calls++
	return fn(ctx)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtr(s string) *string { return &s }
