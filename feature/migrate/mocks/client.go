package mocks

import (
	"context"

	"books-migrator/feature/migrate"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of migrate.Client
type Client struct {
	mock.Mock
}

func (m *Client) ClearCollection(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *Client) UploadCollection(ctx context.Context, name string, docs []migrate.Document) (int, error) {
	args := m.Called(ctx, name, docs)
	return args.Int(0), args.Error(1)
}

func (m *Client) Close() error {
	args := m.Called()
	return args.Error(0)
}
