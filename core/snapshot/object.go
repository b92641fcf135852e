package snapshot

import (
	"bytes"
	"context"
	"io"
	"sync"

	"schema-sentinel/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/vmihailenco/msgpack/v5"
)

const objectContentType = "application/msgpack"

// objectBaseline is the encoded body of the baseline object.
type objectBaseline struct {
	Entries []Entry `msgpack:"entries"`
}

// ObjectStore keeps the whole baseline in one msgpack object.
//
// InsertOrUpdate rewrites the object, so concurrent writers against the same
// object lose updates. Callers serialise access like for every other backend.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string

	mu          sync.Mutex
	bucketReady bool
}

// NewObjectStore creates a store writing objectName into bucket.
func NewObjectStore(client storage.Client, bucket, objectName string) *ObjectStore {
	return &ObjectStore{
		client: client,
		bucket: bucket,
		object: objectName,
	}
}

// FindAll decodes the baseline object. A missing object is an empty baseline.
func (s *ObjectStore) FindAll(ctx context.Context) ([]Entry, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	entries, err := s.load(ctx)
	if err != nil {
		return nil, storageErr("find all", err)
	}
	return Sorted(entries), nil
}

// InsertOrUpdate reads the object, upserts the entry and writes it back.
func (s *ObjectStore) InsertOrUpdate(ctx context.Context, entry Entry) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	entries, err := s.load(ctx)
	if err != nil {
		return storageErr("insert or update "+entry.Identity, err)
	}

	index := Index(entries)
	index[entry.Identity] = entry

	merged := make([]Entry, 0, len(index))
	for _, e := range index {
		merged = append(merged, e)
	}
	if err := s.save(ctx, Sorted(merged)); err != nil {
		return storageErr("insert or update "+entry.Identity, err)
	}
	return nil
}

// ClearAll removes the baseline object.
func (s *ObjectStore) ClearAll(ctx context.Context) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, s.object, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return storageErr("clear all", err)
	}
	return nil
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bucketReady {
		return nil
	}
	if err := storage.EnsureBucket(ctx, s.client, s.bucket); err != nil {
		return storageErr("ensure bucket", err)
	}
	s.bucketReady = true
	return nil
}

func (s *ObjectStore) load(ctx context.Context) ([]Entry, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, err
	}
	defer obj.Close()

	// minio defers the request until the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var body objectBaseline
	if err := msgpack.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	for i, e := range body.Entries {
		body.Entries[i] = NewEntry(e.Identity, e.LastModified)
	}
	return body.Entries, nil
}

func (s *ObjectStore) save(ctx context.Context, entries []Entry) error {
	data, err := msgpack.Marshal(&objectBaseline{Entries: entries})
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: objectContentType,
	})
	return err
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
