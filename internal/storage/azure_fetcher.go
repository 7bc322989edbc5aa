package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBlobFetcher serves model files from an Azure Blob Storage container,
// for hosts that mirror the models privately. The blob name is the base name
// of the requested URL, so "https://example.com/a/eng.traineddata" reads the
// blob "eng.traineddata".
type AzureBlobFetcher struct {
	client    *azblob.Client
	container string
}

// NewAzureBlobFetcher authenticates with a shared account key against the
// account's public blob endpoint.
func NewAzureBlobFetcher(accountName, accountKey, container string) (*AzureBlobFetcher, error) {
	return NewAzureBlobFetcherWithURL(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		accountName, accountKey, container,
	)
}

// NewAzureBlobFetcherWithURL is NewAzureBlobFetcher against an explicit
// service URL, such as an emulator.
func NewAzureBlobFetcherWithURL(serviceURL, accountName, accountKey, container string) (*AzureBlobFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &AzureBlobFetcher{client: client, container: container}, nil
}

// Fetch downloads the blob named after modelURL's base name.
func (a *AzureBlobFetcher) Fetch(ctx context.Context, modelURL string) ([]byte, error) {
	blobName, err := BlobName(modelURL)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := resp.Body
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxModelBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	if len(data) > maxModelBytes {
		return nil, fmt.Errorf("blob exceeds %d bytes", maxModelBytes)
	}
	return data, nil
}

// BlobName returns the last path element of a model URL.
func BlobName(modelURL string) (string, error) {
	parsed, err := url.Parse(modelURL)
	if err != nil {
		return "", fmt.Errorf("invalid model URL: %w", err)
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("model URL %q has no file name", modelURL)
	}
	return name, nil
}
