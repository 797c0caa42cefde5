package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

// FirestoreStore keeps one document per account in a Firestore collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, projectID, collection string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, uid string) (*UserDocument, error) {
	snap, err := s.client.Collection(s.collection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", uid, err)
	}

	var doc UserDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", uid, err)
	}

	return &doc, nil
}

func (s *FirestoreStore) SaveCategories(ctx context.Context, uid string, categories []savings.Category) error {
	return s.merge(ctx, uid, map[string]interface{}{
		"categories": categories,
		"updatedAt":  time.Now(),
	})
}

func (s *FirestoreStore) SaveTransactions(ctx context.Context, uid string, txs []transaction.Transaction) error {
	return s.merge(ctx, uid, map[string]interface{}{
		"transactionData": txs,
		"updatedAt":       time.Now(),
	})
}

func (s *FirestoreStore) merge(ctx context.Context, uid string, fields map[string]interface{}) error {
	_, err := s.client.Collection(s.collection).Doc(uid).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("merge document %s: %w", uid, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
