package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/file"
	filehttp "github.com/BDorzho/shareit/internal/file/http"
	"github.com/BDorzho/shareit/internal/item"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID = "0b0e6a39-7a5b-4a4e-9a0e-000000000001"
	otherID = "0b0e6a39-7a5b-4a4e-9a0e-000000000002"
	itemID  = "0b0e6a39-7a5b-4a4e-9a0e-0000000000aa"
)

// fakeItems implements only what the photo upload touches.
type fakeItems struct {
	item.Service
	it          *item.Item
	setPhotoErr error
	photoID     string
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	if id != f.it.ID {
		return nil, item.ErrNotFound
	}
	cp := *f.it
	return &cp, nil
}

func (f *fakeItems) SetPhoto(_ context.Context, actorID, id, fileID string) error {
	if f.setPhotoErr != nil {
		return f.setPhotoErr
	}
	if actorID != f.it.OwnerID {
		return item.ErrNotOwner
	}
	f.photoID = fileID
	return nil
}

type fakeFiles struct {
	file.Service
	uploaded []*file.File
	deleted  []string
}

func (f *fakeFiles) Upload(_ context.Context, in file.UploadInput) (*file.File, error) {
	content, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, file.ErrUnsupportedType
	}
	thumb := "upload/th/thumb.jpg"
	uploaded := &file.File{ID: "f-1", UserID: in.UserID, ContentType: contentType, ThumbnailPath: &thumb}
	f.uploaded = append(f.uploaded, uploaded)
	return uploaded, nil
}

func (f *fakeFiles) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *fakeItems, *fakeFiles, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	items := &fakeItems{it: &item.Item{ID: itemID, OwnerID: ownerID, Name: "Drill"}}
	files := &fakeFiles{}
	jwtManager := auth.NewJWTManager("secret", time.Minute)

	r := gin.New()
	h := NewHandler(items, filehttp.NewHandler(files), 1<<20)
	RegisterRoutes(r.Group("/v1"), h, auth.AuthRequired(jwtManager))
	return r, items, files, jwtManager
}

func multipartBody(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(10, 10, color.White), imaging.PNG))
	return buf.Bytes()
}

func upload(t *testing.T, r *gin.Engine, jwtManager *auth.JWTManager, userID string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	token, err := jwtManager.GenerateAccessToken(userID, userID+"@example.com")
	require.NoError(t, err)

	body, contentType := multipartBody(t, content)
	req := httptest.NewRequest(http.MethodPost, "/v1/items/"+itemID+"/photo", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadPhotoByOwner(t *testing.T) {
	r, items, files, jwtManager := setup(t)

	w := upload(t, r, jwtManager, ownerID, pngBytes(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp filehttp.FileUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "f-1", resp.FileID)
	assert.Equal(t, "/v1/files/f-1", resp.URL)
	require.NotNil(t, resp.ThumbnailURL)
	assert.Equal(t, "/v1/files/f-1/thumbnail", *resp.ThumbnailURL)

	assert.Equal(t, "f-1", items.photoID)
	assert.Equal(t, ownerID, files.uploaded[0].UserID)
}

func TestUploadPhotoByStrangerIsForbidden(t *testing.T) {
	r, items, files, jwtManager := setup(t)

	w := upload(t, r, jwtManager, otherID, pngBytes(t))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, files.uploaded)
	assert.Empty(t, items.photoID)
}

func TestUploadPhotoRejectsNonImage(t *testing.T) {
	r, _, files, jwtManager := setup(t)

	w := upload(t, r, jwtManager, ownerID, []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, files.uploaded)
}

func TestUploadPhotoRollsBackWhenAttachFails(t *testing.T) {
	r, items, files, jwtManager := setup(t)
	items.setPhotoErr = errors.New("db down")

	w := upload(t, r, jwtManager, ownerID, pngBytes(t))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"f-1"}, files.deleted)
}
