package v1

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/studymate/studymate/store"
)

// maxUploadBytes caps the accepted document size.
const maxUploadBytes = 5 << 20

type fileResponse struct {
	UID         string `json:"uid"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Status      string `json:"status"`
	CreatedTs   int64  `json:"created_ts"`
}

func convertFile(file *store.UserFile) fileResponse {
	return fileResponse{
		UID:         file.UID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Status:      string(file.Status),
		CreatedTs:   file.CreatedTs,
	}
}

// UploadFile accepts a document, stores it, and indexes it for retrieval
// before returning. Text and markdown are read directly; PDF and Office
// formats go through the Tika extractor when one is configured. Indexing
// failures leave the file in the FAILED state, visible through the listing.
func (s *APIV1Service) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()
	if s.Indexer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "document indexing requires the AI provider to be enabled")
	}
	user := currentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds the 5 MB limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload").SetInternal(err)
	}
	defer src.Close()
	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload").SetInternal(err)
	}
	if int64(len(content)) > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds the 5 MB limit")
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	text := string(content)
	if s.Extractor != nil && s.Extractor.IsSupported(contentType) {
		text, err = s.Extractor.Extract(ctx, content, contentType)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "failed to extract text from document").SetInternal(err)
		}
	}

	now := s.Now().Unix()
	file, err := s.Store.CreateUserFile(ctx, &store.UserFile{
		UID:         shortuuid.New(),
		CreatorID:   user.ID,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		Status:      store.FileStatusProcessing,
		CreatedTs:   now,
		UpdatedTs:   now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store file").SetInternal(err)
	}

	if err := s.Indexer.IndexFile(ctx, file, text); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "file could not be indexed").SetInternal(err)
	}

	stored, err := s.Store.GetUserFile(ctx, &store.FindUserFile{ID: &file.ID})
	if err != nil || stored == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load stored file").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, convertFile(stored))
}

// ListFiles returns the user's uploaded documents.
func (s *APIV1Service) ListFiles(c echo.Context) error {
	user := currentUser(c)
	files, err := s.Store.ListUserFiles(c.Request().Context(), &store.FindUserFile{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list files").SetInternal(err)
	}

	responses := make([]fileResponse, 0, len(files))
	for _, file := range files {
		responses = append(responses, convertFile(file))
	}
	return c.JSON(http.StatusOK, responses)
}

// DeleteFile removes a document and its index chunks.
func (s *APIV1Service) DeleteFile(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	uid := c.Param("uid")
	file, err := s.Store.GetUserFile(ctx, &store.FindUserFile{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up file").SetInternal(err)
	}
	if file == nil {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	if err := s.Store.DeleteUserFile(ctx, &store.DeleteUserFile{ID: file.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete file").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
