package pinecone

import (
	"context"
	"fmt"
	"os"
	"strings"
	"github.com/docuchat/backend/internal/logger"
)

// VectorStore is the per-document chunk index. Namespaces are document
// identifiers; the chunk text travels in vector metadata under the "text" key
// so retrieval returns content, not just IDs.
type VectorStore interface {
	Upsert(ctx context.Context, namespace string, vectors []Vector) error
	QueryTexts(ctx context.Context, namespace string, q []float32, topK int) ([]string, error)
}

type vectorStore struct {
	log       *logger.Logger
	pc        Client
	indexName string
	indexHost string
}

func NewVectorStore(log *logger.Logger, pc Client) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pc == nil {
		return nil, fmt.Errorf("pinecone client required")
	}

	indexName := strings.TrimSpace(os.Getenv("PINECONE_INDEX_NAME"))
	if indexName == "" {
		return nil, fmt.Errorf("missing PINECONE_INDEX_NAME")
	}

	host := strings.TrimSpace(os.Getenv("PINECONE_INDEX_HOST"))

	// If host missing, bootstrap via describe_index (fine for local/dev; avoid in prod).
	if host == "" {
		desc, err := pc.DescribeIndex(context.Background(), indexName)
		if err != nil {
			return nil, fmt.Errorf("pinecone describe_index failed: %w", err)
		}
		host = strings.TrimSpace(desc.Host)
		if host == "" {
			return nil, fmt.Errorf("pinecone describe_index returned empty host")
		}
		log.Warn("PINECONE_INDEX_HOST not set; resolved via describe_index (avoid this in production)",
			"index_name", indexName,
			"index_host", host,
		)
	}

	return &vectorStore{
		log:       log.With("service", "PineconeVectorStore"),
		pc:        pc,
		indexName: indexName,
		indexHost: host,
	}, nil
}

func (s *vectorStore) Upsert(ctx context.Context, namespace string, vectors []Vector) error {
	if s == nil || s.pc == nil {
		return fmt.Errorf("vector store unavailable")
	}
	_, err := s.pc.UpsertVectors(ctx, s.indexHost, UpsertRequest{
		Namespace: strings.TrimSpace(namespace),
		Vectors:   vectors,
	})
	return err
}

func (s *vectorStore) QueryTexts(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
	if s == nil || s.pc == nil {
		return nil, fmt.Errorf("vector store unavailable")
	}
	resp, err := s.pc.Query(ctx, s.indexHost, QueryRequest{
		Namespace:       strings.TrimSpace(namespace),
		Vector:          q,
		TopK:            topK,
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		text, _ := m.Metadata["text"].(string)
		if strings.TrimSpace(text) != "" {
			out = append(out, text)
		}
	}
	return out, nil
}
