package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"
)

// RequesterForm is what an anonymous visitor submits to request a download.
type RequesterForm struct {
	FullName      string
	RUT           string
	Email         string
	Comments      string
	InstitutionID int64
}

type DownloadService struct {
	artifacts  ports.ArtifactRepository
	refs       ports.ReferenceRepository
	requesters ports.RequesterRepository
	storage    ports.FileStorage
	events     ports.EventPublisher
}

func NewDownloadService(artifacts ports.ArtifactRepository, refs ports.ReferenceRepository, requesters ports.RequesterRepository, storage ports.FileStorage, events ports.EventPublisher) *DownloadService {
	return &DownloadService{artifacts: artifacts, refs: refs, requesters: requesters, storage: storage, events: events}
}

// ArchiveName is the attachment name of an artifact's bundle.
func ArchiveName(id int64) string {
	return fmt.Sprintf("artifact_%d.zip", id)
}

// Package builds an in-memory zip with the artifact's thumbnail under
// thumbnail/ and its model files and images under model/.
func (s *DownloadService) Package(ctx context.Context, id int64) (*bytes.Buffer, error) {
	artifact, err := s.artifacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	type entry struct{ dir, src string }
	var entries []entry
	if artifact.Thumbnail != nil {
		entries = append(entries, entry{"thumbnail", artifact.Thumbnail.Path})
	}
	if artifact.Model != nil {
		entries = append(entries,
			entry{"model", artifact.Model.Texture},
			entry{"model", artifact.Model.Object},
			entry{"model", artifact.Model.Material},
		)
	}
	for _, img := range artifact.Images {
		entries = append(entries, entry{"model", img.Path})
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	written := mapset.NewThreadUnsafeSet[string]()
	sources := mapset.NewThreadUnsafeSet[string]()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.src == "" || sources.Contains(e.src) {
			continue
		}
		name := uniqueEntryName(written, e.dir, path.Base(e.src))

		if err := s.addFile(zw, name, e.src); err != nil {
			log.WithError(err).WithFields(log.Fields{"artifact_id": id, "file": e.src}).Warn("skipping missing media file")
			continue
		}
		written.Add(name)
		sources.Add(e.src)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}

	log.WithFields(log.Fields{"artifact_id": id, "files": written.Cardinality()}).Info("artifact packaged")
	return buf, nil
}

// uniqueEntryName returns dir/base, or dir/stem_N.ext when that name is
// already in the archive.
func uniqueEntryName(taken mapset.Set[string], dir, base string) string {
	name := dir + "/" + base
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; taken.Contains(name); n++ {
		name = fmt.Sprintf("%s/%s_%d%s", dir, stem, n, ext)
	}
	return name
}

func (s *DownloadService) addFile(zw *zip.Writer, name, src string) error {
	rc, err := s.storage.Open(src)
	if err != nil {
		return err
	}
	defer rc.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("zip copy %s: %w", name, err)
	}
	return nil
}

// RecordRequest stores who asked for the artifact. A non-nil user produces a
// registered request built from the account; otherwise form is required.
func (s *DownloadService) RecordRequest(ctx context.Context, artifactID int64, user *domain.User, form *RequesterForm) (*domain.ArtifactRequester, error) {
	exists, err := s.artifacts.Exists(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrArtifactNotFound
	}

	var req *domain.ArtifactRequester
	switch {
	case user != nil:
		req, err = s.fromUser(ctx, artifactID, user)
	case form != nil:
		req, err = s.fromForm(ctx, artifactID, form)
	default:
		err = domain.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	if err := s.requesters.Create(ctx, req); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"requester_id":  req.ID,
		"artifact_id":   artifactID,
		"is_registered": req.IsRegistered,
	}).Info("download request recorded")

	s.publish(ctx, req)
	return req, nil
}

func (s *DownloadService) fromUser(ctx context.Context, artifactID int64, user *domain.User) (*domain.ArtifactRequester, error) {
	req := &domain.ArtifactRequester{
		Name:         user.FullName(),
		RUT:          user.RUT,
		Email:        user.Email,
		IsRegistered: true,
		ArtifactID:   artifactID,
	}
	if req.Name == "" {
		req.Name = user.Username
	}

	// The account stores its institution by name; link it when it matches a row.
	if name := strings.TrimSpace(user.Institution); name != "" {
		inst, err := s.refs.FindByName(ctx, domain.RefInstitution, name)
		switch {
		case err == nil:
			req.InstitutionID = &inst.ID
			req.Institution = &domain.Institution{ID: inst.ID, Name: inst.Name}
		case !errors.Is(err, domain.ErrInstitutionNotFound):
			return nil, err
		}
	}
	return req, nil
}

func (s *DownloadService) fromForm(ctx context.Context, artifactID int64, form *RequesterForm) (*domain.ArtifactRequester, error) {
	if strings.TrimSpace(form.FullName) == "" || strings.TrimSpace(form.RUT) == "" ||
		strings.TrimSpace(form.Email) == "" || form.InstitutionID <= 0 {
		return nil, domain.ErrRequesterIncomplete
	}

	inst, err := s.refs.Get(ctx, domain.RefInstitution, form.InstitutionID)
	if err != nil {
		return nil, err
	}

	return &domain.ArtifactRequester{
		Name:          strings.TrimSpace(form.FullName),
		RUT:           strings.TrimSpace(form.RUT),
		Email:         strings.TrimSpace(form.Email),
		Comments:      form.Comments,
		IsRegistered:  false,
		InstitutionID: &inst.ID,
		Institution:   &domain.Institution{ID: inst.ID, Name: inst.Name},
		ArtifactID:    artifactID,
	}, nil
}

func (s *DownloadService) publish(ctx context.Context, req *domain.ArtifactRequester) {
	if s.events == nil {
		return
	}

	event := ports.ArtifactRequestedEvent{
		RequesterID:  req.ID,
		ArtifactID:   req.ArtifactID,
		Name:         req.Name,
		Email:        req.Email,
		IsRegistered: req.IsRegistered,
		RequestedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if req.Institution != nil {
		event.Institution = req.Institution.Name
	}

	if err := s.events.Publish(ctx, ports.RoutingArtifactRequested, event); err != nil {
		log.WithError(err).WithField("requester_id", req.ID).Warn("publish artifact requested event failed")
	}
}

// ListRequests returns recorded download requests, newest first.
func (s *DownloadService) ListRequests(ctx context.Context, limit, offset int) ([]*domain.ArtifactRequester, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.requesters.List(ctx, limit, offset)
}
