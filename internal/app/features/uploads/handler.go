// internal/app/features/uploads/handler.go
//
// Attachment relay for the public requirements form. Files land in the
// configured storage backend under a per-lead prefix; the returned URLs
// are what the form embeds as attachments when it submits.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/devinnolab/proplanner/internal/app/store/audit"
	leadstore "github.com/devinnolab/proplanner/internal/app/store/leads"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes caps one multipart request.
const maxUploadBytes = 32 << 20

// Handler relays form attachments into storage.
type Handler struct {
	Leads    *leadstore.Store
	Storage  storage.Store
	AuditLog *auditlog.Logger
	BaseURL  string
	Log      *zap.Logger
}

func NewHandler(leads *leadstore.Store, store storage.Store, audit *auditlog.Logger, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Leads:    leads,
		Storage:  store,
		AuditLog: audit,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

type uploadedFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type uploadResponse struct {
	Success       bool           `json:"success"`
	UploadedFiles []uploadedFile `json:"uploadedFiles"`
	Errors        []string       `json:"errors"`
}

// HandleUpload handles POST /uploads: multipart form with a leadId
// field and one or more files. Each file succeeds or fails on its own;
// the request as a whole only fails when the lead cannot be resolved.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Formulario multipart inválido.")
		return
	}

	leadID := r.FormValue("leadId")
	if leadID == "" {
		httpjson.Error(w, http.StatusBadRequest, "leadId es obligatorio.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	lead, err := h.Leads.Resolve(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Lead no encontrado.")
			return
		}
		h.Log.Error("uploads: lead resolve failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "No se recibió ningún archivo.")
		return
	}

	resp := uploadResponse{
		UploadedFiles: []uploadedFile{},
		Errors:        []string{},
	}

	for _, fh := range files {
		urlStr, err := h.storeOne(ctx, lead.HexID(), fh)
		if err != nil {
			h.Log.Warn("uploads: file upload failed",
				zap.Error(err),
				zap.String("lead_id", lead.HexID()),
				zap.String("file", fh.Filename))
			resp.Errors = append(resp.Errors, fmt.Sprintf("No se pudo subir el archivo %q.", fh.Filename))
			continue
		}
		resp.UploadedFiles = append(resp.UploadedFiles, uploadedFile{Name: fh.Filename, URL: urlStr})
	}

	resp.Success = len(resp.UploadedFiles) > 0

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAttachmentsUploaded,
		EntityID:  lead.HexID(),
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		Success:   resp.Success,
		Details: map[string]string{
			"uploaded": fmt.Sprintf("%d", len(resp.UploadedFiles)),
			"failed":   fmt.Sprintf("%d", len(resp.Errors)),
		},
	})

	httpjson.Write(w, http.StatusOK, resp)
}

// storeOne writes a single multipart file under the lead's prefix and
// returns the URL the form should embed.
func (h *Handler) storeOne(ctx context.Context, leadID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(fh.Filename))
	path := fmt.Sprintf("leads/%s/%s", leadID, uniqueName)

	opts := &storage.PutOptions{
		ContentType: fh.Header.Get("Content-Type"),
	}
	if err := h.Storage.Put(ctx, path, f, opts); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return h.BaseURL + "/files/" + path, nil
}

// HandleServeFile handles GET /files/*: local storage streams the file
// straight off disk, anything else redirects to a short-lived signed
// URL.
func (h *Handler) HandleServeFile(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" || filepath.Clean("/"+path) != "/"+path {
		httpjson.Error(w, http.StatusBadRequest, "Ruta de archivo inválida.")
		return
	}

	if localStorage, ok := h.Storage.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(path)
		if err != nil {
			h.Log.Error("uploads: file path lookup failed", zap.Error(err), zap.String("path", path))
			httpjson.Error(w, http.StatusNotFound, "Archivo no encontrado.")
			return
		}
		http.ServeFile(w, r, fullPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	signedURL, err := h.Storage.PresignedURL(ctx, path, &storage.PresignOptions{
		Expires: 15 * time.Minute,
	})
	if err != nil {
		h.Log.Error("uploads: signed URL failed", zap.Error(err), zap.String("path", path))
		httpjson.Error(w, http.StatusNotFound, "Archivo no encontrado.")
		return
	}
	http.Redirect(w, r, signedURL, http.StatusFound)
}

// sanitizeFilename strips path components and replaces characters that
// could be problematic in object names.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		base := string(result[:100-len(ext)])
		return base + ext
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '_':
		return true
	}
	return false
}
