package infra

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProbeStep is one step of a backend-storage connection test, shaped
// for direct rendering on the settings page.
type StorageProbeStep struct {
	Step    string `json:"step"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func probeStep(step string, err error, okMsg string) StorageProbeStep {
	if err != nil {
		return StorageProbeStep{Step: step, Status: "failed", Message: err.Error()}
	}
	return StorageProbeStep{Step: step, Status: "success", Message: okMsg}
}

// ProbeBackendStorage exercises an S3-compatible backend end to end: client
// init, bucket access, object create, object overwrite, object delete. It
// stops at the first failing step and reports every step it ran.
func ProbeBackendStorage(ctx context.Context, endpointURL, bucketName, region, accessKey, secretKey string) (bool, []StorageProbeStep) {
	var results []StorageProbeStep

	secure := strings.HasPrefix(endpointURL, "https://")
	endpoint := strings.TrimPrefix(strings.TrimPrefix(endpointURL, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: region,
	})
	results = append(results, probeStep("Initialize S3 Client", err, "S3 client created successfully"))
	if err != nil {
		return false, results
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err == nil && !exists {
		err = fmt.Errorf("bucket %q does not exist", bucketName)
	}
	results = append(results, probeStep("Check Bucket Access", err, fmt.Sprintf("Bucket %q is accessible", bucketName)))
	if err != nil {
		return false, results
	}

	testKey := fmt.Sprintf("colonia-test-%s.txt", time.Now().UTC().Format("20060102150405"))

	payload := []byte("Colonia backend storage test - Version 1")
	_, err = client.PutObject(ctx, bucketName, testKey, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{ContentType: "text/plain"})
	results = append(results, probeStep("Create Object", err, fmt.Sprintf("Object %q created successfully", testKey)))
	if err != nil {
		return false, results
	}

	payload = []byte("Colonia backend storage test - Version 2 (Edit)")
	_, err = client.PutObject(ctx, bucketName, testKey, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{ContentType: "text/plain"})
	results = append(results, probeStep("Edit Object", err, fmt.Sprintf("Object %q updated successfully", testKey)))
	if err != nil {
		// Leave the object behind rather than mask the original failure.
		return false, results
	}

	err = client.RemoveObject(ctx, bucketName, testKey, minio.RemoveObjectOptions{})
	results = append(results, probeStep("Delete Object", err, fmt.Sprintf("Object %q deleted successfully", testKey)))
	return err == nil, results
}
