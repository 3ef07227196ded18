package vault

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// treeFixture builds:
//
//	root/
//	  child/
//	    grandchild/
//	      deep.txt
//	  top.txt
type treeFixture struct {
	folders    *memFolderRepo
	files      *memFileRepo
	blobs      *memBlobStore
	tx         *passthroughTx
	root       string
	child      string
	grandchild string
	topFile    string
	deepFile   string
}

func newTreeFixture(t *testing.T) *treeFixture {
	t.Helper()
	ctx := context.Background()
	fx := &treeFixture{
		folders: newMemFolderRepo(),
		files:   newMemFileRepo(),
		blobs:   newMemBlobStore(),
		tx:      &passthroughTx{},
	}

	root := &models.Folder{Name: "root"}
	if err := fx.folders.Create(ctx, root); err != nil {
		t.Fatal(err)
	}
	child := &models.Folder{Name: "child", ParentID: &root.ID}
	if err := fx.folders.Create(ctx, child); err != nil {
		t.Fatal(err)
	}
	grandchild := &models.Folder{Name: "grandchild", ParentID: &child.ID}
	if err := fx.folders.Create(ctx, grandchild); err != nil {
		t.Fatal(err)
	}

	topFile := &models.FileItem{Filename: "top.txt", StoragePath: "originals/2026/01/k1_top.txt", ParentFolderID: &root.ID, CreatedAt: time.Now()}
	if err := fx.files.Create(ctx, topFile); err != nil {
		t.Fatal(err)
	}
	deepFile := &models.FileItem{Filename: "deep.txt", StoragePath: "originals/2026/01/k2_deep.txt", ParentFolderID: &grandchild.ID, CreatedAt: time.Now()}
	if err := fx.files.Create(ctx, deepFile); err != nil {
		t.Fatal(err)
	}

	fx.root = root.ID
	fx.child = child.ID
	fx.grandchild = grandchild.ID
	fx.topFile = topFile.ID
	fx.deepFile = deepFile.ID
	return fx
}

func (fx *treeFixture) service() *treeService {
	return &treeService{
		folderRepo: fx.folders,
		fileRepo:   fx.files,
		blobStore:  fx.blobs,
		txManager:  fx.tx,
		logger:     testLogger(),
	}
}

func TestTreeService_SoftDeleteFolder_CascadesWholeSubtree(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatalf("SoftDeleteFolder() error = %v", err)
	}

	for _, id := range []string{fx.root, fx.child, fx.grandchild} {
		f, _ := fx.folders.GetByID(ctx, id)
		if !f.IsDeleted {
			t.Errorf("folder %s not trashed", f.Name)
		}
		if f.DeletedAt == nil {
			t.Errorf("folder %s has no deleted_at", f.Name)
		}
	}
	for _, id := range []string{fx.topFile, fx.deepFile} {
		f, _ := fx.files.GetByID(ctx, id)
		if !f.IsDeleted {
			t.Errorf("file %s not trashed", f.Filename)
		}
	}

	if fx.tx.calls != 1 {
		t.Errorf("cascade used %d transactions, want 1", fx.tx.calls)
	}
}

func TestTreeService_RestoreFolder_ReversesCascade(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatalf("SoftDeleteFolder() error = %v", err)
	}
	if err := svc.RestoreFolder(ctx, fx.root); err != nil {
		t.Fatalf("RestoreFolder() error = %v", err)
	}

	for _, id := range []string{fx.root, fx.child, fx.grandchild} {
		f, _ := fx.folders.GetByID(ctx, id)
		if f.IsDeleted {
			t.Errorf("folder %s still trashed after restore", f.Name)
		}
		if f.DeletedAt != nil {
			t.Errorf("folder %s still has deleted_at after restore", f.Name)
		}
	}
	for _, id := range []string{fx.topFile, fx.deepFile} {
		f, _ := fx.files.GetByID(ctx, id)
		if f.IsDeleted {
			t.Errorf("file %s still trashed after restore", f.Filename)
		}
	}
}

func TestTreeService_SoftDeleteFolder_Idempotent(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatalf("first SoftDeleteFolder() error = %v", err)
	}
	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatalf("second SoftDeleteFolder() error = %v", err)
	}
	if fx.tx.calls != 1 {
		t.Errorf("repeated trash ran %d transactions, want 1", fx.tx.calls)
	}
}

func TestTreeService_PurgeFolder_RequiresTrashed(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	err := svc.PurgeFolder(ctx, fx.root)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("PurgeFolder(live) error = %v, want ErrValidation", err)
	}
	if len(fx.blobs.removeCalls) != 0 {
		t.Error("purge of a live folder must not touch the blob store")
	}
}

func TestTreeService_PurgeFolder_RemovesAllNestedBlobsThenRecords(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatal(err)
	}
	if err := svc.PurgeFolder(ctx, fx.root); err != nil {
		t.Fatalf("PurgeFolder() error = %v", err)
	}

	if len(fx.blobs.removeCalls) != 1 {
		t.Fatalf("blob Remove called %d times, want 1 batched call", len(fx.blobs.removeCalls))
	}
	if got := len(fx.blobs.removeCalls[0]); got != 2 {
		t.Errorf("Remove received %d keys, want 2", got)
	}

	for _, id := range []string{fx.root, fx.child, fx.grandchild} {
		if _, err := fx.folders.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("folder %s still exists after purge", id)
		}
	}
}

func TestTreeService_PurgeFolder_BlobFailureKeepsRecords(t *testing.T) {
	fx := newTreeFixture(t)
	fx.blobs.failRemove = true
	svc := fx.service()
	ctx := context.Background()

	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatal(err)
	}
	if err := svc.PurgeFolder(ctx, fx.root); err == nil {
		t.Fatal("PurgeFolder() succeeded despite blob removal failure")
	}

	// Records survive so a retry can find the storage keys again.
	if _, err := fx.folders.GetByID(ctx, fx.root); err != nil {
		t.Error("folder record deleted despite blob removal failure")
	}
	if _, err := fx.files.GetByID(ctx, fx.deepFile); err != nil {
		t.Error("file record deleted despite blob removal failure")
	}
}

func TestTreeService_PurgeFile(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	if err := svc.PurgeFile(ctx, fx.topFile); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("PurgeFile(live) error = %v, want ErrValidation", err)
	}

	if err := svc.SoftDeleteFile(ctx, fx.topFile); err != nil {
		t.Fatal(err)
	}
	if err := svc.PurgeFile(ctx, fx.topFile); err != nil {
		t.Fatalf("PurgeFile() error = %v", err)
	}

	if _, err := fx.files.GetByID(ctx, fx.topFile); !errors.Is(err, domain.ErrNotFound) {
		t.Error("file record still exists after purge")
	}
	if len(fx.blobs.removeCalls) != 1 {
		t.Errorf("blob Remove called %d times, want 1", len(fx.blobs.removeCalls))
	}
}

func TestTreeService_RestoreFile_IndependentOfParent(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	// Trash the whole tree, then restore just the deep file.
	if err := svc.SoftDeleteFolder(ctx, fx.root); err != nil {
		t.Fatal(err)
	}
	if err := svc.RestoreFile(ctx, fx.deepFile); err != nil {
		t.Fatalf("RestoreFile() error = %v", err)
	}

	f, _ := fx.files.GetByID(ctx, fx.deepFile)
	if f.IsDeleted {
		t.Error("file still trashed after restore")
	}
	if f.ParentFolderID == nil || *f.ParentFolderID != fx.grandchild {
		t.Error("restore moved the file away from its original parent")
	}
}

func TestTreeService_ListTrash(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.service()
	ctx := context.Background()

	if err := svc.SoftDeleteFile(ctx, fx.topFile); err != nil {
		t.Fatal(err)
	}
	if err := svc.SoftDeleteFolder(ctx, fx.child); err != nil {
		t.Fatal(err)
	}

	trash, err := svc.ListTrash(ctx)
	if err != nil {
		t.Fatalf("ListTrash() error = %v", err)
	}
	if len(trash.Folders) != 2 {
		t.Errorf("trashed folders = %d, want 2 (child + grandchild)", len(trash.Folders))
	}
	if len(trash.Files) != 2 {
		t.Errorf("trashed files = %d, want 2 (top.txt + deep.txt)", len(trash.Files))
	}
}
