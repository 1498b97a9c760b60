package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"assetreg/internal/apperr"
	"assetreg/internal/model"
	"assetreg/internal/repository"
	"assetreg/internal/storage"
)

const presignExpiry = 15 * time.Minute

// MaterialService stores versioned evidence files against stage records.
// The SHA-256 digest is always computed here from the uploaded bytes, never
// trusted from the caller; bytes are kept content-addressed so identical
// uploads share one object while each keeps its own version row.
type MaterialService interface {
	// Upload attaches file content to an open stage record as the next
	// version of fileName. Terminal records are frozen evidence; uploading
	// against one fails with InvalidState.
	Upload(ctx context.Context, stageRecordID, fileName string, r io.Reader, declaredType string, actor model.Actor) (*model.Material, error)

	// List returns a record's materials ordered by (file_name, version).
	List(ctx context.Context, stageRecordID string) ([]model.Material, error)

	// DownloadURL returns a presigned, time-limited URL for one material.
	DownloadURL(ctx context.Context, stageRecordID, materialID string) (string, error)
}

type materialService struct {
	tx        repository.Tx
	records   repository.StageRecordRepository
	materials repository.MaterialRepository
	store     storage.Storage
}

// NewMaterialService constructs a MaterialService.
func NewMaterialService(tx repository.Tx, records repository.StageRecordRepository, materials repository.MaterialRepository, store storage.Storage) MaterialService {
	return &materialService{tx: tx, records: records, materials: materials, store: store}
}

func (s *materialService) Upload(ctx context.Context, stageRecordID, fileName string, r io.Reader, declaredType string, actor model.Actor) (*model.Material, error) {
	if stageRecordID == "" {
		return nil, apperr.E(apperr.KindValidation, "stage record id is required")
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, apperr.E(apperr.KindValidation, "file name is required")
	}
	if r == nil {
		return nil, apperr.E(apperr.KindValidation, "file content is required")
	}

	// The digest keys the object store, so the content has to be read in
	// full before the bytes can be placed.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	key := storage.MaterialKey(digest)

	if err := s.checkRecordOpen(ctx, s.records, stageRecordID); err != nil {
		return nil, err
	}

	// Identical content is stored once; the metadata row below still
	// records this upload as its own version.
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("stat object: %w", err)
	}
	if !exists {
		if _, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
			Size:        int64(len(data)),
			ContentType: declaredType,
			Metadata:    map[string]string{"original-filename": fileName},
		}); err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
	}

	var out *model.Material
	err = s.tx.RunInTx(ctx, func(st repository.Stores) error {
		// The record may have been decided between the pre-check and here;
		// re-check inside the transaction so frozen evidence stays frozen.
		if err := s.checkRecordOpen(ctx, st.Records, stageRecordID); err != nil {
			return err
		}

		m, err := st.Materials.CreateVersioned(ctx, &model.Material{
			ID:            uuid.NewString(),
			StageRecordID: stageRecordID,
			FileName:      fileName,
			FileSize:      int64(len(data)),
			FileType:      declaredType,
			HashSHA256:    digest,
			UploadedBy:    actor.ID,
		})
		if err != nil {
			return err
		}

		if _, err := st.Audit.Create(ctx, newAuditEvent(actor, model.ActionMaterialUpload, model.ResourceMaterial, m.ID,
			fmt.Sprintf("file %s v%d sha256=%s", m.FileName, m.Version, m.HashSHA256))); err != nil {
			return fmt.Errorf("audit upload: %w", err)
		}

		out = m
		return nil
	})
	if err != nil {
		// An orphaned content-addressed object is harmless: it is either
		// already referenced by another version or reclaimed on the next
		// identical upload.
		return nil, err
	}
	return out, nil
}

func (s *materialService) checkRecordOpen(ctx context.Context, records repository.StageRecordRepository, stageRecordID string) error {
	rec, err := records.Get(ctx, stageRecordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.KindNotFound, "stage record not found")
		}
		return err
	}
	if rec.Status.Terminal() {
		return apperr.E(apperr.KindInvalidState, "stage record already decided as %s, evidence is frozen", rec.Status)
	}
	return nil
}

func (s *materialService) List(ctx context.Context, stageRecordID string) ([]model.Material, error) {
	if stageRecordID == "" {
		return nil, apperr.E(apperr.KindValidation, "stage record id is required")
	}
	if _, err := s.records.Get(ctx, stageRecordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.KindNotFound, "stage record not found")
		}
		return nil, err
	}
	return s.materials.ListByStageRecord(ctx, stageRecordID)
}

func (s *materialService) DownloadURL(ctx context.Context, stageRecordID, materialID string) (string, error) {
	if stageRecordID == "" || materialID == "" {
		return "", apperr.E(apperr.KindValidation, "stage record id and material id are required")
	}
	m, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.E(apperr.KindNotFound, "material not found")
		}
		return "", err
	}
	if m.StageRecordID != stageRecordID {
		return "", apperr.E(apperr.KindNotFound, "material not found")
	}
	return s.store.PresignGet(ctx, storage.MaterialKey(m.HashSHA256), presignExpiry)
}
