package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_RoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "http://shop.test/storage/")

	require.NoError(t, d.Put(ctx, "products/phone.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg"))
	assert.True(t, d.Exists(ctx, "products/phone.jpg"))
	assert.Equal(t, "http://shop.test/storage/products/phone.jpg", d.URL("products/phone.jpg"))

	rc, err := d.Open(ctx, "products/phone.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg-bytes", string(body))

	require.NoError(t, d.Delete(ctx, "products/phone.jpg"))
	require.NoError(t, d.Delete(ctx, "products/phone.jpg"))

	_, err = d.Open(ctx, "products/phone.jpg")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalDisk_StaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	d := NewLocalDisk(root, "")

	full, err := d.abs("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, root))
}

func TestLocalDisk_Handler(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "")
	require.NoError(t, d.Put(ctx, "products/a.png", strings.NewReader("png"), "image/png"))

	h := http.StripPrefix("/storage", d.Handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/products/a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/products/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductImagePath(t *testing.T) {
	p, ct, err := ProductImagePath("iphone-15", "Photo.JPEG")
	require.NoError(t, err)
	assert.Equal(t, "products/iphone-15.jpg", p)
	assert.Equal(t, "image/jpeg", ct)

	_, _, err = ProductImagePath("iphone-15", "notes.txt")
	assert.Error(t, err)
}
