package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type photoManifestEntry struct {
	ImageURL string `json:"image_url"`
}

// loadPhotos reads the per-folio photo manifest, when one exists, and
// turns each image into a StructureImage document. A missing manifest
// means the property simply has no photos; a corrupt one is logged
// and treated the same way.
func (s *Service) loadPhotos(ctx context.Context, folio string) ([]Document, []string) {
	if s.photosDir == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(filepath.Join(s.photosDir, folio+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "read photo manifest", "folio", folio, "err", err)
		return nil, nil
	}

	var entries []photoManifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.WarnContext(ctx, "decode photo manifest", "folio", folio, "err", err)
		return nil, nil
	}

	var docs []Document
	var ids []string
	for _, entry := range entries {
		if entry.ImageURL == "" {
			continue
		}
		id := s.newID()
		docs = append(docs, Document{
			ID:                 id,
			Type:               typeDocument,
			DocumentIdentifier: "StructureImage",
			PropertyImageURL:   cleanImageURL(entry.ImageURL),
		})
		ids = append(ids, id)
	}
	return docs, ids
}

// cleanImageURL strips the resize hints (Height/Width query params)
// and the www host noise from a photo url, so the same image dedupes
// to the same url regardless of which page size it was scraped from.
func cleanImageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.ReplaceAll(u.Host, ".www", "")
	u.Host = strings.ReplaceAll(host, "www.", "")

	q := u.Query()
	q.Del("Height")
	q.Del("Width")
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}
