package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	werrs "github.com/warbler-social/warbler/internal/errors"
	"github.com/warbler-social/warbler/internal/serverutil"
)

// Uploads are capped well above what a tweet attachment should ever be.
const maxUploadBytes = 32 << 20

type CreateMediaResponse struct {
	MediaID string `json:"media_id"`
}

// postMedia accepts a multipart upload, writes the file under the media
// directory, and records a row for later attachment to a tweet.
func (s *Server) postMedia(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return werrs.E(err, http.StatusBadRequest)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return werrs.E("missing file field", http.StatusBadRequest)
	}
	defer file.Close()

	// Never trust the uploaded name; store under a fresh one.
	fileName := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.mediaDir, fileName))
	if err != nil {
		return fmt.Errorf("error creating media file: %s", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return fmt.Errorf("error writing media file: %s", err)
	}

	m, err := s.repo.InsertMedia(r.Context(), fileName, header.Header.Get("Content-Type"))
	if err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, CreateMediaResponse{MediaID: m.ID})
}

func (s *Server) getMediaFile(w http.ResponseWriter, r *http.Request) error {
	m, err := s.repo.Media(r.Context(), mux.Vars(r)["mediaID"])
	if err != nil {
		return coerce(err)
	}

	if m.ContentType != "" {
		w.Header().Set("Content-Type", m.ContentType)
	}
	http.ServeFile(w, r, filepath.Join(s.mediaDir, m.FileName))

	return nil
}
