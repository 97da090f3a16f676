package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/google/uuid"
)

// AzureAPI is the part of *azblob.Client used by AzureStore.
type AzureAPI interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
	DeleteBlob(ctx context.Context, containerName, blobName string, o *azblob.DeleteBlobOptions) (azblob.DeleteBlobResponse, error)
}

// AzureOptions locates an Azure Blob Storage container. With AccountKey
// empty, ServiceURL must carry a SAS token.
type AzureOptions struct {
	ServiceURL  string
	AccountName string
	AccountKey  string
	Container   string
}

// AzureStore keeps blobs under users/<userID>/ in a single container.
type AzureStore struct {
	client    AzureAPI
	container string
}

func NewAzureStore(o AzureOptions) (*AzureStore, error) {
	var (
		client *azblob.Client
		err    error
	)
	if o.AccountKey != "" {
		cred, cerr := azblob.NewSharedKeyCredential(o.AccountName, o.AccountKey)
		if cerr != nil {
			return nil, fmt.Errorf("azure credential: %w", cerr)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(o.ServiceURL, cred, nil)
	} else {
		client, err = azblob.NewClientWithNoCredential(o.ServiceURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}
	return NewAzureStoreWithClient(client, o.Container), nil
}

func NewAzureStoreWithClient(client AzureAPI, container string) *AzureStore {
	return &AzureStore{client: client, container: container}
}

func azureErr(op string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return remoteErr(op, fmt.Errorf("%w: %w", common.ErrorNotFound, err))
	}
	return remoteErr(op, err)
}

func (s *AzureStore) Upload(ctx context.Context, userID, name string, data []byte) (string, error) {
	key := userPrefix(userID) + uuid.NewString() + "/" + EncryptedName(name)
	_, err := s.client.UploadBuffer(ctx, s.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr("application/octet-stream")},
		Metadata: map[string]*string{
			"encrypted":  to.Ptr("true"),
			"uploadedby": to.Ptr(uploaderName),
		},
	})
	if err != nil {
		return "", azureErr("upload blob", err)
	}
	return key, nil
}

func (s *AzureStore) Download(ctx context.Context, userID, handle string) ([]byte, error) {
	if !strings.HasPrefix(handle, userPrefix(userID)) {
		return nil, remoteErr("download blob", common.ErrorNotFound)
	}
	resp, err := s.client.DownloadStream(ctx, s.container, handle, nil)
	if err != nil {
		return nil, azureErr("download blob", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remoteErr("read blob", err)
	}
	return data, nil
}

func (s *AzureStore) Delete(ctx context.Context, userID, handle string) error {
	if !strings.HasPrefix(handle, userPrefix(userID)) {
		return remoteErr("delete blob", common.ErrorNotFound)
	}
	if _, err := s.client.DeleteBlob(ctx, s.container, handle, nil); err != nil {
		return azureErr("delete blob", err)
	}
	return nil
}
