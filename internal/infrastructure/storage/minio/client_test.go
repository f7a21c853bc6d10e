package minio

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

type mockMinIOAPI struct {
	mock.Mock
}

func (m *mockMinIOAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]minio.BucketInfo)
	return b, args.Error(1)
}

func (m *mockMinIOAPI) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, object, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockMinIOAPI) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucket, object, opts)
	o, _ := args.Get(0).(*minio.Object)
	return o, args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	api    *mockMinIOAPI
	client *MinIOClient
}

func (s *ClientTestSuite) SetupTest() {
	s.api = &mockMinIOAPI{}
	s.client = newWithAPI(s.api, &MinIOConfig{Endpoint: "localhost:9000", MaxObjectSize: 1024}, logging.NewNopLogger())
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	s.Equal("us-east-1", cfg.Region)
	s.Equal(int64(64<<20), cfg.MaxObjectSize)
}

func (s *ClientTestSuite) TestParseObjectURL() {
	ref, err := ParseObjectURL("s3://obr-data/2024/data.csv")
	s.Require().NoError(err)
	s.Equal("obr-data", ref.Bucket)
	s.Equal("2024/data.csv", ref.Key)
	s.Equal("s3://obr-data/2024/data.csv", ref.String())

	for _, bad := range []string{"s3://bucket-only", "s3:///key", "http://host/key", "%zz"} {
		_, err := ParseObjectURL(bad)
		s.Error(err, bad)
		s.True(errors.IsCode(err, errors.ErrCodeDatasetSourceInvalid), bad)
	}
}

func (s *ClientTestSuite) TestIsObjectURL() {
	s.True(IsObjectURL("s3://b/k"))
	s.True(IsObjectURL("S3://b/k"))
	s.False(IsObjectURL("data.csv"))
	s.False(IsObjectURL("https://example.com/data.csv"))
}

func (s *ClientTestSuite) TestReadObject_NotFound() {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	s.api.On("StatObject", mock.Anything, "b", "missing.csv", mock.Anything).
		Return(minio.ObjectInfo{}, notFound)

	_, err := s.client.ReadObject(context.Background(), ObjectRef{Bucket: "b", Key: "missing.csv"})
	s.Require().Error(err)
	s.True(stderrors.Is(err, ErrObjectNotFound))
	s.api.AssertNotCalled(s.T(), "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestReadObject_StatFailure() {
	s.api.On("StatObject", mock.Anything, "b", "k", mock.Anything).
		Return(minio.ObjectInfo{}, stderrors.New("connection refused"))

	_, err := s.client.ReadObject(context.Background(), ObjectRef{Bucket: "b", Key: "k"})
	s.True(errors.IsCode(err, errors.ErrCodeDatasetLoadFailed))
}

func (s *ClientTestSuite) TestReadObject_TooLarge() {
	s.api.On("StatObject", mock.Anything, "b", "big.csv", mock.Anything).
		Return(minio.ObjectInfo{Size: 4096}, nil)

	_, err := s.client.ReadObject(context.Background(), ObjectRef{Bucket: "b", Key: "big.csv"})
	s.True(stderrors.Is(err, ErrObjectTooLarge))
}

func (s *ClientTestSuite) TestReadObject_GetFailure() {
	s.api.On("StatObject", mock.Anything, "b", "k", mock.Anything).Return(minio.ObjectInfo{Size: 10}, nil)
	s.api.On("GetObject", mock.Anything, "b", "k", mock.Anything).Return(nil, stderrors.New("reset"))

	_, err := s.client.ReadObject(context.Background(), ObjectRef{Bucket: "b", Key: "k"})
	s.True(errors.IsCode(err, errors.ErrCodeDatasetLoadFailed))
}

func (s *ClientTestSuite) TestReadObject_Closed() {
	s.Require().NoError(s.client.Close())
	_, err := s.client.ReadObject(context.Background(), ObjectRef{Bucket: "b", Key: "k"})
	s.True(stderrors.Is(err, ErrMinIOClientClosed))
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{{Name: "b"}}, nil).Once()
	status, err := s.client.HealthCheck(context.Background())
	s.NoError(err)
	s.True(status.Healthy)

	s.api.On("ListBuckets", mock.Anything).Return(nil, stderrors.New("denied")).Once()
	status, err = s.client.HealthCheck(context.Background())
	s.Error(err)
	s.False(status.Healthy)
	s.Equal("denied", status.Error)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

//Personal.AI order the ending
