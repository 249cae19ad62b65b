package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain"
)

var _ usecase.ImageStore = (*LocalImageStore)(nil)

// productsSubdir carpeta de imágenes de productos dentro de Dir.
const productsSubdir = "products"

// allowedImageTypes mime detectado -> extensión guardada.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/webp": ".webp",
}

// LocalImageStore guarda imágenes en disco bajo Dir y las expone bajo PublicURL.
type LocalImageStore struct {
	dir       string
	publicURL string
	maxBytes  int
}

// NewLocalImageStore construye el store. maxSizeMB limita el tamaño decodificado.
func NewLocalImageStore(dir, publicURL string, maxSizeMB int) *LocalImageStore {
	return &LocalImageStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/"), maxBytes: maxSizeMB << 20}
}

// SaveBase64 decodifica payload (con o sin prefijo data:<mime>;base64,), valida el tipo por contenido
// y lo guarda como <baseName>-<uuid><ext>. Devuelve la ruta pública.
func (s *LocalImageStore) SaveBase64(ctx context.Context, payload, baseName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return "", fmt.Errorf("%w: imagen base64 inválida", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: imagen vacía", domain.ErrInvalidInput)
	}
	if len(data) > s.maxBytes {
		return "", fmt.Errorf("%w: la imagen supera %d MB", domain.ErrInvalidInput, s.maxBytes>>20)
	}
	mime := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mime.String()]
	if !ok {
		return "", fmt.Errorf("%w: tipo de archivo no permitido (%s)", domain.ErrInvalidInput, mime.String())
	}

	dir := filepath.Join(s.dir, productsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de imágenes: %w", err)
	}
	name := baseName + "-" + uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("guardar imagen: %w", err)
	}
	return path.Join(s.publicURL, productsSubdir, name), nil
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, fmt.Errorf("data URI sin contenido")
		}
		payload = payload[idx+1:]
	}
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}
