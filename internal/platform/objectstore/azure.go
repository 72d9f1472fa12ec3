package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStore reads blobs from one storage account.
type AzureStore struct {
	client *azblob.Client
}

// NewAzureStore authenticates with the shared key when configured, then a SAS
// token, else anonymously (public containers).
func NewAzureStore(cfg Config, account string) (*AzureStore, error) {
	if account == "" {
		return nil, errors.New("azure storage account is required (AZURE_STORAGE_ACCOUNT or abfss:// host)")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)

	var client *azblob.Client
	var err error
	switch {
	case cfg.AzureKey != "":
		cred, credErr := azblob.NewSharedKeyCredential(account, cfg.AzureKey)
		if credErr != nil {
			return nil, fmt.Errorf("create shared key credential: %w", credErr)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	case cfg.AzureSASToken != "":
		client, err = azblob.NewClientWithNoCredential(serviceURL+"?"+cfg.AzureSASToken, nil)
	default:
		client, err = azblob.NewClientWithNoCredential(serviceURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureStore{client: client}, nil
}

func (s *AzureStore) Get(ctx context.Context, loc Location) (io.ReadCloser, ObjectInfo, error) {
	if s == nil || s.client == nil {
		return nil, ObjectInfo{}, errors.New("azure store not initialized")
	}
	resp, err := s.client.DownloadStream(ctx, loc.Bucket, loc.Key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound, bloberror.ResourceNotFound) {
			return nil, ObjectInfo{}, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		return nil, ObjectInfo{}, fmt.Errorf("get %s: %w", loc, err)
	}
	info := ObjectInfo{Key: loc.Key, Size: -1}
	if resp.ContentLength != nil {
		info.Size = *resp.ContentLength
	}
	if resp.ETag != nil {
		info.ETag = string(*resp.ETag)
	}
	if resp.ContentType != nil {
		info.ContentType = *resp.ContentType
	}
	if resp.LastModified != nil {
		info.LastModified = *resp.LastModified
	}
	return resp.Body, info, nil
}
