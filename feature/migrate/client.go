package migrate

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Document is one record ready for upload, keyed by its entity id.
type Document struct {
	ID   string
	Data map[string]any
}

// Client is the document-database collaborator. The reconciliation core only
// produces correct JSON for this client to consume; all network I/O lives
// behind this interface.
type Client interface {
	// ClearCollection deletes every document in the named collection and
	// returns how many were removed.
	ClearCollection(ctx context.Context, name string) (int, error)
	// UploadCollection writes the documents into the named collection and
	// returns how many were written.
	UploadCollection(ctx context.Context, name string, docs []Document) (int, error)
	// Close releases the underlying connection.
	Close() error
}

type firestoreClient struct {
	fs *firestore.Client
}

// NewFirestoreClient connects to the configured Firestore project.
func NewFirestoreClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("migrate: project_id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	fs, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("migrate: connect firestore: %w", err)
	}
	return &firestoreClient{fs: fs}, nil
}

func (c *firestoreClient) ClearCollection(ctx context.Context, name string) (int, error) {
	bw := c.fs.BulkWriter(ctx)
	deleted := 0

	iter := c.fs.Collection(name).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("list %s: %w", name, err)
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return deleted, fmt.Errorf("delete %s/%s: %w", name, doc.Ref.ID, err)
		}
		deleted++
	}

	bw.End()
	return deleted, nil
}

func (c *firestoreClient) UploadCollection(ctx context.Context, name string, docs []Document) (int, error) {
	bw := c.fs.BulkWriter(ctx)
	col := c.fs.Collection(name)

	for _, doc := range docs {
		if _, err := bw.Set(col.Doc(doc.ID), doc.Data); err != nil {
			return 0, fmt.Errorf("set %s/%s: %w", name, doc.ID, err)
		}
	}

	bw.End()
	return len(docs), nil
}

func (c *firestoreClient) Close() error {
	return c.fs.Close()
}
