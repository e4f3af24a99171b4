package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/questly/backend/internal/config"
	"github.com/questly/backend/internal/models"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/logger"
	"github.com/questly/backend/pkg/utils"
	"gorm.io/gorm"
)

type FileService struct {
	DB        *gorm.DB
	UploadDir string
}

func NewFileService(db *gorm.DB, cfg config.UploadConfig) *FileService {
	return &FileService{DB: db, UploadDir: cfg.Dir}
}

// UploadInput decouples the service from multipart plumbing so batch
// writes can be driven (and failed) deterministically.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// ResolvedFile is a handle to an on-disk file found under a module.
type ResolvedFile struct {
	Name     string
	Path     string
	MimeType string
}

// Disposition hints the browser to render images inline and download
// everything else.
func (f *ResolvedFile) Disposition() string {
	prefix := "attachment"
	if strings.HasPrefix(f.MimeType, "image/") {
		prefix = "inline"
	}
	return fmt.Sprintf("%s; %s", prefix, f.Name)
}

func (f *ResolvedFile) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, apperr.BadRequest("Cannot read bytes file", nil)
	}
	return data, nil
}

// Resolve maps a (module, name) pair to an existing regular file. The
// MIME type is probed from content, not the extension.
func (s *FileService) Resolve(moduleName, fileName string) (*ResolvedFile, error) {
	if !safeSegment(moduleName) || !safeSegment(fileName) {
		return nil, apperr.NotFound("Resource not found")
	}

	path := filepath.Join(s.UploadDir, moduleName, fileName)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, apperr.NotFound("Resource not found")
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, apperr.BadRequest("Cannot get file mime type", nil)
	}

	return &ResolvedFile{
		Name:     fileName,
		Path:     path,
		MimeType: detected.String(),
	}, nil
}

// BulkUpload writes every input to disk in order, then persists all
// metadata rows in one batch. If any write fails, files already written
// in this call are removed again (best effort) and nothing is saved.
func (s *FileService) BulkUpload(ctx context.Context, moduleName string, inputs []UploadInput) ([]models.File, error) {
	var records []models.File
	var writtenPaths []string

	cleanup := func() {
		for _, path := range writtenPaths {
			_ = os.Remove(path)
		}
	}

	for position, input := range inputs {
		derivedName := fmt.Sprintf("%s-%d%s",
			uuid.New().String(), time.Now().UnixMilli(), filepath.Ext(input.OriginalName))

		path, err := s.prepareFilePath(moduleName, derivedName)
		if err == nil {
			// Track before writing so a partial write is cleaned up too.
			writtenPaths = append(writtenPaths, path)
			err = writeFile(path, input)
		}
		if err != nil {
			cleanup()
			logger.Error("bulk_upload_failed", err, map[string]interface{}{
				"module_name": moduleName,
				"file_name":   input.OriginalName,
				"position":    position,
			})
			return nil, apperr.BadRequest("Bulk upload files failed", nil)
		}

		record := models.File{
			ModuleName: moduleName,
			Name:       derivedName,
			Type:       input.ContentType,
			Size:       float64(input.Size) / 1024,
			URI:        fileURI(moduleName, derivedName),
		}
		if len(inputs) > 1 {
			index := position
			record.Index = &index
		}
		records = append(records, record)
	}

	if err := s.DB.WithContext(ctx).Create(&records).Error; err != nil {
		cleanup()
		return nil, apperr.Internal("Failed saving file records")
	}

	logger.Info("bulk_upload_succeeded", map[string]interface{}{
		"module_name": moduleName,
		"file_count":  len(records),
	})

	return records, nil
}

type BulkDeleteResult struct {
	DeletedFiles   []models.File `json:"deletedFiles"`
	UndeletedFiles []models.File `json:"undeletedFiles"`
}

// BulkDelete removes the backing files for the given ids. A metadata
// row is only dropped when its file actually left the disk; rows whose
// file was missing or undeletable stay behind for a later retry.
// Unknown ids are ignored. An all-failure outcome is still a success.
func (s *FileService) BulkDelete(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error) {
	var files []models.File
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&files).Error; err != nil {
		return nil, apperr.Internal("Failed loading file records")
	}

	result := &BulkDeleteResult{
		DeletedFiles:   []models.File{},
		UndeletedFiles: []models.File{},
	}

	for _, file := range files {
		path := filepath.Join(s.UploadDir, file.ModuleName, file.Name)

		if _, err := os.Stat(path); err != nil {
			result.UndeletedFiles = append(result.UndeletedFiles, file)
			continue
		}

		if err := os.Remove(path); err != nil {
			result.UndeletedFiles = append(result.UndeletedFiles, file)
			continue
		}

		result.DeletedFiles = append(result.DeletedFiles, file)
	}

	if len(result.DeletedFiles) > 0 {
		if err := s.DB.WithContext(ctx).Delete(&result.DeletedFiles).Error; err != nil {
			return nil, apperr.Internal("Failed deleting file records")
		}
	}

	logger.Info("bulk_delete_finished", map[string]interface{}{
		"deleted":   len(result.DeletedFiles),
		"undeleted": len(result.UndeletedFiles),
	})

	return result, nil
}

// List returns file metadata ordered by upload time, optionally
// filtered by module.
func (s *FileService) List(ctx context.Context, moduleName string, p utils.PaginationParams) ([]models.File, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.File{})
	if moduleName != "" {
		query = query.Where("module_name = ?", moduleName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("Failed counting files")
	}

	var files []models.File
	if err := utils.ApplyPagination(query.Order("created_at DESC"), p).Find(&files).Error; err != nil {
		return nil, 0, apperr.Internal("Failed listing files")
	}

	return files, total, nil
}

func (s *FileService) prepareFilePath(moduleName, fileName string) (string, error) {
	dir := s.UploadDir
	if moduleName != "" {
		dir = filepath.Join(s.UploadDir, moduleName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func writeFile(path string, input UploadInput) error {
	source, err := input.Open()
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(target, source); err != nil {
		target.Close()
		return err
	}

	return target.Close()
}

func fileURI(moduleName, fileName string) string {
	if moduleName == "" {
		return "/" + fileName
	}
	return "/" + moduleName + "/" + fileName
}

// safeSegment rejects path values that could escape the upload root.
func safeSegment(value string) bool {
	if value == "" {
		return false
	}
	return !strings.ContainsAny(value, `/\`) && value != ".." && value != "."
}
