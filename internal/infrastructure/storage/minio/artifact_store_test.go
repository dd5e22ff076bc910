package minio

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/config"
	pkgerrors "github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

const testRunID = common.RunID("0b0f7c52-3f1e-4f54-9d0e-0c1d2e3f4a5b")

func newTestStore(t *testing.T, prefix string) (*ArtifactStore, *MockObjectAPI) {
	t.Helper()
	api := new(MockObjectAPI)
	client := NewClientWithAPI(api, config.MinIOConfig{Bucket: "thermo", Prefix: prefix}, nil)
	return NewArtifactStore(client, nil), api
}

func testArtifact() *pipeline.Artifact {
	at := common.Timestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return &pipeline.Artifact{
		RunID:             testRunID,
		ModelID:           "test-GEM",
		Stage:             pipeline.StageAll,
		StartedAt:         at,
		FinishedAt:        at,
		CompoundsDocument: []byte(`{"C00002":{}}`),
		CompoundSummary:   &pipeline.CompoundSummary{Total: 1, Found: 1},
		ReactionsDocument: []byte(`{"ATPASE":{}}`),
		ReactionSummary:   &pipeline.ReactionSummary{Total: 1, Valid: 1},
	}
}

func TestArtifactStore_Name(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, "")
	assert.Equal(t, "minio", s.Name())
}

func TestArtifactStore_RunDir(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, "caches")
	assert.Equal(t, "caches/test-GEM/"+testRunID.String(), s.RunDir("test-GEM", testRunID))

	s, _ = newTestStore(t, "")
	assert.Equal(t, "test-GEM/"+testRunID.String(), s.RunDir("test-GEM", testRunID))
}

func TestArtifactStore_Publish(t *testing.T) {
	t.Parallel()
	s, api := newTestStore(t, "caches")
	dir := "caches/test-GEM/" + testRunID.String()

	api.On("PutObject", mock.Anything, "thermo", mock.Anything, mock.Anything, jsonContentType).
		Return(minio.UploadInfo{}, nil)

	a := testArtifact()
	require.NoError(t, s.Publish(context.Background(), a))

	assert.Equal(t, a.CompoundsDocument, api.Uploads[dir+"/compounds.json"])
	assert.Equal(t, a.ReactionsDocument, api.Uploads[dir+"/reactions.json"])
	assert.Equal(t, api.Uploads[dir+"/manifest.json"], api.Uploads["caches/test-GEM/latest.json"])

	var m Manifest
	require.NoError(t, json.Unmarshal(api.Uploads[dir+"/manifest.json"], &m))
	assert.Equal(t, testRunID, m.RunID)
	assert.Equal(t, "test-GEM", m.ModelID)
	assert.Equal(t, []string{dir + "/compounds.json", dir + "/reactions.json"}, m.Objects)
	require.NotNil(t, m.ReactionSummary)
	assert.Equal(t, 1, m.ReactionSummary.Valid)
}

func TestArtifactStore_PublishCompoundsOnly(t *testing.T) {
	t.Parallel()
	s, api := newTestStore(t, "")
	api.On("PutObject", mock.Anything, "thermo", mock.Anything, mock.Anything, jsonContentType).
		Return(minio.UploadInfo{}, nil)

	a := testArtifact()
	a.ReactionsDocument = nil
	a.ReactionSummary = nil
	require.NoError(t, s.Publish(context.Background(), a))

	assert.Len(t, api.Uploads, 3)
	assert.NotContains(t, api.Uploads, "test-GEM/"+testRunID.String()+"/reactions.json")
}

func TestArtifactStore_UploadFailureStopsBeforeManifest(t *testing.T) {
	t.Parallel()
	s, api := newTestStore(t, "")
	dir := "test-GEM/" + testRunID.String()

	api.On("PutObject", mock.Anything, "thermo", dir+"/compounds.json", mock.Anything, jsonContentType).
		Return(minio.UploadInfo{}, nil)
	api.On("PutObject", mock.Anything, "thermo", dir+"/reactions.json", mock.Anything, jsonContentType).
		Return(minio.UploadInfo{}, errors.New("503 Slow Down"))

	err := s.Publish(context.Background(), testArtifact())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeStorageError))
	assert.Contains(t, err.Error(), "reactions.json")
	assert.NotContains(t, api.Uploads, dir+"/manifest.json")
	assert.NotContains(t, api.Uploads, "test-GEM/latest.json")
}

func TestArtifactStore_ClosedClient(t *testing.T) {
	t.Parallel()
	s, api := newTestStore(t, "")
	require.NoError(t, s.client.Close())

	err := s.Publish(context.Background(), testArtifact())
	assert.Error(t, err)
	api.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

//Personal.AI order the ending
