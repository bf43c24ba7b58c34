package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/generator"
	"github.com/qrgen/qrgen/output"
	"github.com/qrgen/qrgen/payload"
)

type generateRequest struct {
	Kind     payload.Kind   `json:"kind"`
	Fields   payload.Fields `json:"fields"`
	Filename string         `json:"filename"`
	Size     int            `json:"size,omitempty"`
	Level    string         `json:"level,omitempty"`
}

type generateResponse struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Preview string `json:"preview"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	content, err := payload.Build(req.Kind, req.Fields.Trimmed())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := s.Defaults
	if req.Size != 0 {
		opts.ModuleSize = req.Size
	}
	if req.Level != "" {
		level, err := encoder.ParseLevel(req.Level)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Level = level
	}
	if err := opts.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.Service.Generate(r.Context(), generator.Request{
		Kind:     req.Kind,
		Content:  content,
		Filename: strings.TrimSpace(req.Filename),
		Options:  opts,
	})
	if err != nil {
		if payload.IsInputError(err) || errors.Is(err, output.ErrOutsideDir) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.Log.Error("generation failed", "error", err, "kind", req.Kind)
		writeError(w, http.StatusInternalServerError, "generation failed: "+err.Error())
		return
	}

	preview, err := encoder.PNG(encoder.Thumbnail(res.Image, encoder.PreviewSize))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		ID:      res.ID,
		Path:    res.Path,
		Content: res.Content,
		Preview: base64.StdEncoding.EncodeToString(preview),
	})
}

type saveAsRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) handleSaveAs(w http.ResponseWriter, r *http.Request) {
	var req saveAsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" || strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, "source and target are required")
		return
	}
	if !s.Service.Writer.Contains(req.Source) {
		writeError(w, http.StatusForbidden, "source must be inside the output directory")
		return
	}

	dst, err := s.Service.Writer.SaveAs(req.Source, req.Target)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save failed: "+err.Error())
		return
	}
	s.Log.Info("qr code copied", "source", req.Source, "target", dst)
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "path": dst})
}

type openFolderRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleOpenFolder(w http.ResponseWriter, r *http.Request) {
	var req openFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if !s.Service.Writer.Contains(req.Path) {
		writeError(w, http.StatusForbidden, "path must be inside the output directory")
		return
	}
	if err := s.Service.Writer.OpenFolder(req.Path); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "opened"})
}
