package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/questly/backend/internal/services"
	"github.com/questly/backend/pkg/apperr"
	"github.com/questly/backend/pkg/utils"
)

type FilesHandler struct {
	Files *services.FileService
}

func NewFilesHandler(files *services.FileService) *FilesHandler {
	return &FilesHandler{Files: files}
}

func (h *FilesHandler) Get(c *fiber.Ctx) error {
	file, err := h.Files.Resolve(c.Params("moduleName"), c.Params("fileName"))
	if err != nil {
		return err
	}

	data, err := file.ReadAll()
	if err != nil {
		return err
	}

	c.Set("Content-Type", file.MimeType)
	c.Set("Content-Disposition", file.Disposition())
	return c.Send(data)
}

func (h *FilesHandler) BulkUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.BadRequest("Invalid multipart form", nil)
	}

	moduleName := ""
	if values := form.Value["moduleName"]; len(values) > 0 {
		moduleName = strings.TrimSpace(values[0])
	}
	fileHeaders := form.File["files"]

	fields := map[string]string{}
	if moduleName == "" {
		fields["moduleName"] = "is required"
	}
	if len(fileHeaders) == 0 {
		fields["files"] = "is required"
	}
	if len(fields) > 0 {
		return apperr.BadRequest("Some values are invalid", fields)
	}

	records, err := h.Files.BulkUpload(c.Context(), moduleName, uploadInputs(fileHeaders))
	if err != nil {
		return err
	}

	var data interface{}
	if len(records) > 1 {
		uris := make([]string, 0, len(records))
		for _, record := range records {
			uris = append(uris, record.URI)
		}
		data = uris
	} else {
		data = records[0].URI
	}

	return utils.Send(c, fiber.StatusCreated, "Bulk upload successful", data)
}

type bulkDeleteRequest struct {
	FileIDs []string `json:"fileIds" validate:"required,min=1,dive,uuid"`
}

func (h *FilesHandler) BulkDelete(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body", nil)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(req.FileIDs))
	for _, raw := range req.FileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.BadRequest("Some values are invalid", map[string]string{"fileIds": "must contain valid ids"})
		}
		ids = append(ids, id)
	}

	result, err := h.Files.BulkDelete(c.Context(), ids)
	if err != nil {
		return err
	}

	return utils.Send(c, fiber.StatusOK, "Bulk delete successful", result)
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	moduleName := strings.TrimSpace(c.Query("module"))

	files, total, err := h.Files.List(c.Context(), moduleName, p)
	if err != nil {
		return err
	}

	return utils.Paginated(c, "Files retrieved", files, total, p.Limit)
}

func uploadInputs(fileHeaders []*multipart.FileHeader) []services.UploadInput {
	inputs := make([]services.UploadInput, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		header := fh
		inputs = append(inputs, services.UploadInput{
			OriginalName: header.Filename,
			ContentType:  header.Header.Get("Content-Type"),
			Size:         header.Size,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}
	return inputs
}
