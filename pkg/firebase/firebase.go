package firebase

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Storage wraps the Firebase Cloud Storage default bucket used for image
// uploads.
type Storage struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// InitStorage initializes the Firebase application and returns a Storage
// bound to the configured bucket.
func InitStorage(ctx context.Context, credentialsPath, bucketName string) (*Storage, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("Firebase storage bucket not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default storage bucket: %w", err)
	}

	log.Println("Firebase app and storage bucket initialized successfully!")
	return &Storage{bucket: bucket, bucketName: bucketName}, nil
}

// Upload streams r into the bucket under objectName and returns the object's
// public URL.
func (s *Storage) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("error writing object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error finalizing object %s: %w", objectName, err)
	}
	return s.ObjectURL(objectName), nil
}

// ObjectURL builds the public URL for an object in the bucket.
func (s *Storage) ObjectURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName)
}

// Delete removes an object from the bucket.
func (s *Storage) Delete(ctx context.Context, objectName string) error {
	return s.bucket.Object(objectName).Delete(ctx)
}
