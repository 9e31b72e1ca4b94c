package file

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BDorzho/shareit/internal/pkg/storage"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	files   map[string]*File
	failAdd bool
}

func (r *memRepo) Create(_ context.Context, f *File) error {
	if r.failAdd {
		return errors.New("insert failed")
	}
	cp := *f
	r.files[f.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	delete(r.files, id)
	return nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(640, 480, color.NRGBA{G: 160, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestService(t *testing.T) (Service, *memRepo, storage.Storage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := &memRepo{files: map[string]*File{}}
	return NewService(repo, store), repo, store
}

var imageTypes = []string{"image/jpeg", "image/png"}

func TestUploadImageCreatesThumbnail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	content := pngBytes(t)

	f, err := svc.Upload(ctx, UploadInput{
		UserID:       "alice",
		Filename:     "drill.PNG",
		Content:      bytes.NewReader(content),
		MaxSizeBytes: 1 << 20,
		AllowedTypes: imageTypes,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(len(content)), f.Size)
	assert.True(t, strings.HasSuffix(f.StoragePath, ".png"))
	require.NotNil(t, f.ThumbnailPath)

	rc, got, err := svc.Download(ctx, f.ID)
	require.NoError(t, err)
	stored, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, stored)
	assert.Equal(t, "drill.PNG", got.Filename)

	rc, _, err = svc.DownloadThumbnail(ctx, f.ID)
	require.NoError(t, err)
	thumb, err := imaging.Decode(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 200)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 200)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.Upload(ctx, UploadInput{
		UserID:       "alice",
		Filename:     "notes.txt",
		Content:      strings.NewReader("plain text pretending to be a photo"),
		AllowedTypes: imageTypes,
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, UploadInput{
		UserID:       "alice",
		Filename:     "big.png",
		Content:      bytes.NewReader(pngBytes(t)),
		MaxSizeBytes: 64,
	})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = svc.Upload(ctx, UploadInput{UserID: "alice", Filename: "empty.png", Content: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrEmpty)

	assert.Empty(t, repo.files)
}

func TestUploadCleansUpWhenRecordFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewService(&memRepo{files: map[string]*File{}, failAdd: true}, store)

	_, err = svc.Upload(ctx, UploadInput{UserID: "alice", Filename: "a.png", Content: bytes.NewReader(pngBytes(t))})
	require.Error(t, err)

	var left []string
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			left = append(left, path)
		}
		return err
	}))
	assert.Empty(t, left)
}

func TestDeleteRemovesBlobs(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	f, err := svc.Upload(ctx, UploadInput{UserID: "alice", Filename: "a.png", Content: bytes.NewReader(pngBytes(t))})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, f.ID))

	_, err = svc.Get(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, f.StoragePath)
	assert.ErrorIs(t, err, storage.ErrNotExist)
	_, err = store.Get(ctx, *f.ThumbnailPath)
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestDownloadThumbnailMissing(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	repo.files["f1"] = &File{ID: "f1", StoragePath: "upload/f1/f1.bin"}

	_, _, err := svc.DownloadThumbnail(ctx, "f1")
	assert.ErrorIs(t, err, ErrThumbnailUnavailable)

	_, _, err = svc.Download(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
