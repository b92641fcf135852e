package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"schema-sentinel/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	testBucket = "test-bucket"
	testObject = "snapshot/baseline.msgpack"
)

func encodeBaseline(t *testing.T, entries ...Entry) io.ReadCloser {
	data, err := msgpack.Marshal(&objectBaseline{Entries: entries})
	require.NoError(t, err)
	return io.NopCloser(bytes.NewReader(data))
}

func TestObjectStore_FindAll_MissingObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
	client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})

	store := NewObjectStore(client, testBucket, testObject)
	entries, err := store.FindAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
	client.AssertExpectations(t)
}

func TestObjectStore_FindAll_CreatesBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, testBucket).Return(false, nil).Once()
	client.On("MakeBucket", mock.Anything, testBucket, mock.Anything).Return(nil).Once()
	client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	store := NewObjectStore(client, testBucket, testObject)
	_, err := store.FindAll(context.Background())
	require.NoError(t, err)

	// Second read does not check the bucket again
	_, err = store.FindAll(context.Background())
	require.NoError(t, err)

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "BucketExists", 1)
}

func TestObjectStore_InsertOrUpdate_RewritesObject(t *testing.T) {
	t1 := time.Date(2017, 7, 3, 19, 26, 32, 0, time.UTC)
	t2 := time.Date(2018, 7, 18, 19, 26, 32, 0, time.UTC)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
	client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
		Return(encodeBaseline(t, NewEntry("Class3.java", t1), NewEntry("Class4.java", t1)), nil)

	var written []byte
	client.On("PutObject", mock.Anything, testBucket, testObject, mock.Anything, mock.Anything, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
		return opts.ContentType == objectContentType
	})).Run(func(args mock.Arguments) {
		data, err := io.ReadAll(args.Get(3).(io.Reader))
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), args.Get(4).(int64))
		written = data
	}).Return(minio.UploadInfo{}, nil)

	store := NewObjectStore(client, testBucket, testObject)
	require.NoError(t, store.InsertOrUpdate(context.Background(), NewEntry("Class3.java", t2)))

	var body objectBaseline
	require.NoError(t, msgpack.Unmarshal(written, &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "Class3.java", body.Entries[0].Identity)
	assert.True(t, body.Entries[0].LastModified.Equal(t2))
	assert.Equal(t, "Class4.java", body.Entries[1].Identity)
	client.AssertExpectations(t)
}

func TestObjectStore_ClearAll(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
	client.On("RemoveObject", mock.Anything, testBucket, testObject, mock.Anything).Return(nil)

	store := NewObjectStore(client, testBucket, testObject)
	require.NoError(t, store.ClearAll(context.Background()))
	client.AssertExpectations(t)
}

func TestObjectStore_Failures(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")

	t.Run("BucketCheck", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, testBucket).Return(false, boom)

		_, err := NewObjectStore(client, testBucket, testObject).FindAll(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Read", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403})

		_, err := NewObjectStore(client, testBucket, testObject).FindAll(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("CorruptObject", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte{0xc1, 0x00})), nil)

		_, err := NewObjectStore(client, testBucket, testObject).FindAll(context.Background())
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("Write", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, testBucket).Return(true, nil)
		client.On("GetObject", mock.Anything, testBucket, testObject, mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})
		client.On("PutObject", mock.Anything, testBucket, testObject, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, boom)

		err := NewObjectStore(client, testBucket, testObject).InsertOrUpdate(context.Background(), NewEntry("a", time.Now()))
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, boom)
	})
}
