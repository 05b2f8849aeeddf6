package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// NewBlobClient builds a Blob Storage client from a connection string as
// stored in the vault.
func NewBlobClient(connStr string) (*azblob.Client, error) {
	if connStr == "" {
		return nil, fmt.Errorf("storage connection string is empty")
	}
	client, err := azblob.NewClientFromConnectionString(connStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return client, nil
}

// Ping lists the first page of containers and returns how many it saw.
func Ping(ctx context.Context, client *azblob.Client) (int, error) {
	limit := int32(1)
	pager := client.NewListContainersPager(&azblob.ListContainersOptions{MaxResults: &limit})
	if !pager.More() {
		return 0, nil
	}
	page, err := pager.NextPage(ctx)
	if err != nil {
		return 0, fmt.Errorf("list containers: %w", err)
	}
	return len(page.ContainerItems), nil
}
