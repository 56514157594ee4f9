// Package repository reads the static material catalog from disk.
package repository

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"marmurfit_voicebot/internal/catalog/domain"
	"marmurfit_voicebot/platform/apperr"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk knowledge base. Keys other than "materials"
// (e.g. the assistant prompt kept alongside) are ignored.
type Document struct {
	Materials []domain.Material `json:"materials" yaml:"materials"`
}

// Repository loads catalog documents.
type Repository interface {
	Load() (Document, error)
}

// FileRepository reads a JSON or YAML document, chosen by file extension.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository for path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads and decodes the document. Unknown JSON fields inside a
// material entry are rejected so a typo in "price_per_m2" cannot load as 0.
func (r *FileRepository) Load() (Document, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return Document{}, apperr.Wrap(apperr.KindNotFound, "catalog file unreadable", err).WithOp("catalog.Load")
	}
	return Decode(raw, filepath.Ext(r.path))
}

// Decode parses raw catalog bytes; ext selects the format (".yaml"/".yml" or JSON).
func Decode(raw []byte, ext string) (Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&doc); err != nil {
			return Document{}, apperr.Wrap(apperr.KindValidation, "catalog yaml is malformed", err).WithOp("catalog.Decode")
		}
	default:
		var envelope struct {
			Materials json.RawMessage `json:"materials"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return Document{}, apperr.Wrap(apperr.KindValidation, "catalog json is malformed", err).WithOp("catalog.Decode")
		}
		if len(envelope.Materials) == 0 {
			return Document{}, nil
		}
		dec := json.NewDecoder(bytes.NewReader(envelope.Materials))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc.Materials); err != nil {
			return Document{}, apperr.Wrap(apperr.KindValidation, "catalog materials are malformed", err).WithOp("catalog.Decode")
		}
	}
	return doc, nil
}
