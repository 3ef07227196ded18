package vault

import (
	"context"
	"errors"
	"strings"
	"testing"

	"keepsafe/internal/domain"
	"keepsafe/internal/domain/services"
)

func (fx *treeFixture) bulkService() services.BulkService {
	return NewBulkService(fx.folders, fx.files, fx.blobs, fx.service(), testLogger())
}

func TestBulkService_TrashSelection_Mixed(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()
	ctx := context.Background()

	sel := services.Selection{
		FolderIDs: []string{fx.child},
		FileIDs:   []string{fx.topFile},
	}
	if err := svc.TrashSelection(ctx, sel); err != nil {
		t.Fatalf("TrashSelection() error = %v", err)
	}

	for _, id := range []string{fx.child, fx.grandchild} {
		f, _ := fx.folders.GetByID(ctx, id)
		if !f.IsDeleted {
			t.Errorf("folder %s not trashed", f.Name)
		}
	}
	root, _ := fx.folders.GetByID(ctx, fx.root)
	if root.IsDeleted {
		t.Error("unselected folder was trashed")
	}

	top, _ := fx.files.GetByID(ctx, fx.topFile)
	if !top.IsDeleted {
		t.Error("selected file not trashed")
	}
	deep, _ := fx.files.GetByID(ctx, fx.deepFile)
	if !deep.IsDeleted {
		t.Error("file nested under selected folder not trashed")
	}
}

func TestBulkService_TrashSelection_PartialTolerance(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()
	ctx := context.Background()

	// A missing folder id aborts the remainder but keeps the committed
	// file step.
	sel := services.Selection{
		FolderIDs: []string{"missing-folder", fx.child},
		FileIDs:   []string{fx.topFile},
	}
	err := svc.TrashSelection(ctx, sel)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("TrashSelection() error = %v, want ErrNotFound", err)
	}

	top, _ := fx.files.GetByID(ctx, fx.topFile)
	if !top.IsDeleted {
		t.Error("file step was rolled back; bulk operations are not all-or-nothing")
	}
	child, _ := fx.folders.GetByID(ctx, fx.child)
	if child.IsDeleted {
		t.Error("folder after the failing one was processed")
	}
}

func TestBulkService_TrashSelection_Empty(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()

	if err := svc.TrashSelection(context.Background(), services.Selection{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("TrashSelection(empty) error = %v, want ErrValidation", err)
	}
}

func TestBulkService_PurgeSelection_SingleBatchedBlobRemoval(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()
	ctx := context.Background()

	if err := svc.TrashSelection(ctx, services.Selection{
		FolderIDs: []string{fx.child},
		FileIDs:   []string{fx.topFile},
	}); err != nil {
		t.Fatal(err)
	}

	if err := svc.PurgeSelection(ctx, services.Selection{
		FolderIDs: []string{fx.child},
		FileIDs:   []string{fx.topFile},
	}); err != nil {
		t.Fatalf("PurgeSelection() error = %v", err)
	}

	// One call carrying the union: deep.txt (nested) + top.txt (direct).
	if len(fx.blobs.removeCalls) != 1 {
		t.Fatalf("blob Remove called %d times, want 1", len(fx.blobs.removeCalls))
	}
	if got := len(fx.blobs.removeCalls[0]); got != 2 {
		t.Errorf("Remove received %d keys, want 2", got)
	}

	if _, err := fx.folders.GetByID(ctx, fx.grandchild); !errors.Is(err, domain.ErrNotFound) {
		t.Error("nested folder survived the purge")
	}
	if _, err := fx.files.GetByID(ctx, fx.topFile); !errors.Is(err, domain.ErrNotFound) {
		t.Error("selected file survived the purge")
	}
}

func TestBulkService_PurgeSelection_RequiresTrashedItems(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()
	ctx := context.Background()

	err := svc.PurgeSelection(ctx, services.Selection{FileIDs: []string{fx.topFile}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("PurgeSelection(live file) error = %v, want ErrValidation", err)
	}
	if len(fx.blobs.removeCalls) != 0 {
		t.Error("validation failure still reached the blob store")
	}
}

func TestBulkService_DownloadLinks(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()
	ctx := context.Background()

	links, err := svc.DownloadLinks(ctx, services.Selection{FileIDs: []string{fx.topFile, fx.deepFile}})
	if err != nil {
		t.Fatalf("DownloadLinks() error = %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	for _, l := range links {
		if !strings.Contains(l.URL, "disposition=attachment") {
			t.Errorf("link %q is not attachment-disposition", l.URL)
		}
		if l.Filename == "" {
			t.Error("link missing filename")
		}
	}
}

func TestBulkService_DownloadLinks_RejectsFolders(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()

	_, err := svc.DownloadLinks(context.Background(), services.Selection{
		FolderIDs: []string{fx.child},
		FileIDs:   []string{fx.topFile},
	})
	if !errors.Is(err, domain.ErrUnsupported) {
		t.Errorf("DownloadLinks(folders) error = %v, want ErrUnsupported", err)
	}
}

func TestBulkService_ShareSelection_Unsupported(t *testing.T) {
	fx := newTreeFixture(t)
	svc := fx.bulkService()

	err := svc.ShareSelection(context.Background(), services.Selection{FolderIDs: []string{fx.child}})
	if !errors.Is(err, domain.ErrUnsupported) {
		t.Errorf("ShareSelection() error = %v, want ErrUnsupported", err)
	}
}
