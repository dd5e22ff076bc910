package minio

import (
	"bytes"
	"context"
	"path"

	json "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// Object names inside a run directory.
const (
	CompoundsObject = "compounds.json"
	ReactionsObject = "reactions.json"
	ManifestObject  = "manifest.json"
	LatestObject    = "latest.json"
)

const jsonContentType = "application/json"

// Manifest describes one uploaded run.  The same document is written next to
// the run and as the model's latest pointer.
type Manifest struct {
	RunID           common.RunID              `json:"run_id"`
	ModelID         string                    `json:"model_id"`
	Stage           string                    `json:"stage"`
	StartedAt       common.Timestamp          `json:"started_at"`
	FinishedAt      common.Timestamp          `json:"finished_at"`
	Objects         []string                  `json:"objects"`
	CompoundSummary *pipeline.CompoundSummary `json:"compound_summary,omitempty"`
	ReactionSummary *pipeline.ReactionSummary `json:"reaction_summary,omitempty"`
}

// ArtifactStore uploads each run under <prefix>/<model>/<run>/.
type ArtifactStore struct {
	client *Client
	logger logging.Logger
}

var _ pipeline.Publisher = (*ArtifactStore)(nil)

// NewArtifactStore builds a store writing through client.
func NewArtifactStore(client *Client, log logging.Logger) *ArtifactStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ArtifactStore{client: client, logger: log}
}

// Name implements pipeline.Publisher.
func (s *ArtifactStore) Name() string { return "minio" }

// RunDir returns the object prefix of a run.
func (s *ArtifactStore) RunDir(modelID string, runID common.RunID) string {
	return path.Join(s.client.prefix, modelID, runID.String())
}

// Publish uploads the documents, then the run manifest, then the latest
// pointer.  A reader that finds latest.json can rely on every object it
// lists being present.
func (s *ArtifactStore) Publish(ctx context.Context, a *pipeline.Artifact) error {
	if s.client.isClosed() {
		return ErrClientClosed
	}
	dir := s.RunDir(a.ModelID, a.RunID)
	m := Manifest{
		RunID:           a.RunID,
		ModelID:         a.ModelID,
		Stage:           a.Stage,
		StartedAt:       a.StartedAt,
		FinishedAt:      a.FinishedAt,
		CompoundSummary: a.CompoundSummary,
		ReactionSummary: a.ReactionSummary,
	}

	if a.HasCompounds() {
		key := path.Join(dir, CompoundsObject)
		if err := s.put(ctx, key, a.CompoundsDocument, a); err != nil {
			return err
		}
		m.Objects = append(m.Objects, key)
	}
	if a.HasReactions() {
		key := path.Join(dir, ReactionsObject)
		if err := s.put(ctx, key, a.ReactionsDocument, a); err != nil {
			return err
		}
		m.Objects = append(m.Objects, key)
	}

	doc, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to encode manifest")
	}
	if err := s.put(ctx, path.Join(dir, ManifestObject), doc, a); err != nil {
		return err
	}
	if err := s.put(ctx, path.Join(s.client.prefix, a.ModelID, LatestObject), doc, a); err != nil {
		return err
	}

	s.logger.Info("cache artifacts uploaded",
		logging.String("bucket", s.client.bucket),
		logging.String("dir", dir),
		logging.Int("objects", len(m.Objects)))
	return nil
}

func (s *ArtifactStore) put(ctx context.Context, key string, data []byte, a *pipeline.Artifact) error {
	_, err := s.client.api.PutObject(ctx, s.client.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: jsonContentType,
			UserMetadata: map[string]string{
				"run-id":   a.RunID.String(),
				"model-id": a.ModelID,
			},
		})
	if err != nil {
		s.logger.Error("upload failed", logging.String("key", key), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload object").WithDetail(key)
	}
	return nil
}

//Personal.AI order the ending
