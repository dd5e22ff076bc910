package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/gem-thermo/pkg/errors"
)

// MockObjectAPI is a testify mock of ObjectAPI.  PutObject drains the reader
// into Uploads so tests can inspect object bodies.
type MockObjectAPI struct {
	mock.Mock
	Uploads map[string][]byte
}

func (m *MockObjectAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, objectSize, opts.ContentType)
	if args.Error(1) == nil {
		body, _ := io.ReadAll(reader)
		if m.Uploads == nil {
			m.Uploads = make(map[string][]byte)
		}
		m.Uploads[objectName] = body
	}
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Client
// ─────────────────────────────────────────────────────────────────────────────

type ClientTestSuite struct {
	suite.Suite
	api    *MockObjectAPI
	client *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockObjectAPI)
	s.client = NewClientWithAPI(s.api, config.MinIOConfig{Bucket: "thermo"}, logging.NewNopLogger())
}

func (s *ClientTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestDefaultBucket() {
	c := NewClientWithAPI(s.api, config.MinIOConfig{}, nil)
	s.Equal(config.DefaultMinIOBucket, c.Bucket())
}

func (s *ClientTestSuite) TestEnsureBucket_Exists() {
	s.api.On("BucketExists", mock.Anything, "thermo").Return(true, nil)
	s.NoError(s.client.EnsureBucket(context.Background()))
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestEnsureBucket_Creates() {
	s.api.On("BucketExists", mock.Anything, "thermo").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "thermo", mock.Anything).Return(nil)
	s.NoError(s.client.EnsureBucket(context.Background()))
}

func (s *ClientTestSuite) TestEnsureBucket_CreateFails() {
	s.api.On("BucketExists", mock.Anything, "thermo").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "thermo", mock.Anything).Return(errors.New("access denied"))

	err := s.client.EnsureBucket(context.Background())
	s.Error(err)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeStorageError))
	s.Contains(err.Error(), "thermo")
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{{Name: "thermo"}}, nil).Once()
	s.NoError(s.client.HealthCheck(context.Background()))

	s.api.On("ListBuckets", mock.Anything).Return(nil, errors.New("timeout")).Once()
	s.Error(s.client.HealthCheck(context.Background()))
}

func (s *ClientTestSuite) TestClosed() {
	s.NoError(s.client.Close())
	err := s.client.HealthCheck(context.Background())
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeStorageError))
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	t.Parallel()
	_, err := NewClient(config.MinIOConfig{Endpoint: "http://bad endpoint"}, logging.NewNopLogger())
	assert.Error(t, err)
}

//Personal.AI order the ending
