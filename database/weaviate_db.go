package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/haodang/chatpdf-be/config"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "DocumentChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "fingerprint", DataType: []string{"text"}},
			{Name: "page", DataType: []string{"int"}},
			{Name: "totalPages", DataType: []string{"int"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore indexes document chunks. Embeddings are produced by the
// configured text2vec module, so the store owns both the embedding and
// nearest-neighbor concerns of the pipeline.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
		clientCfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     cfg.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	CHUNK_CLASS_OBJECT.Vectorizer = cfg.Text2Vec
	CHUNK_CLASS_OBJECT.ModuleConfig = NewText2VecModuleConfig(cfg.Text2Vec, cfg.EmbedModel)
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create DocumentChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete DocumentChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create DocumentChunk class: %v", err)
	}
	return nil
}

func (s *WeaviateStore) BatchInsertChunks(ctx context.Context, docs []Document) error {
	total := len(docs)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class:      CHUNK_CLASS,
				Properties: chunkProperties(docs[j]),
			})
		}

		_, err := batcher.Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}

		log.Printf("Inserted batch %d-%d of %d chunks", i, end, total)
	}

	return nil
}

// SearchSimilar runs a nearText query scoped to one document fingerprint
// and returns hits with their distances and stored vectors.
func (s *WeaviateStore) SearchSimilar(ctx context.Context, fingerprint, query string, limit int) ([]ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "title"},
		{Name: "source"},
		{Name: "fingerprint"},
		{Name: "page"},
		{Name: "totalPages"},
		{Name: "createdAt"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}, {Name: "vector"}}},
	}
	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})
	where := filters.Where().
		WithPath([]string{"fingerprint"}).
		WithOperator(filters.Equal).
		WithValueString(fingerprint)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearText(nearText).
		WithWhere(where)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var chunks []ScoredChunk
	if data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			doc, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			chunk := ScoredChunk{
				Document: Document{
					Content: asString(doc["content"]),
					Metadata: Metadata{
						Title:       asString(doc["title"]),
						Source:      asString(doc["source"]),
						Fingerprint: asString(doc["fingerprint"]),
						Page:        asInt(doc["page"]),
						TotalPages:  asInt(doc["totalPages"]),
					},
					CreatedAt: int64(asInt(doc["createdAt"])),
				},
			}
			if additional, ok := doc["_additional"].(map[string]interface{}); ok {
				chunk.Document.ID = asString(additional["id"])
				if d, ok := additional["distance"].(float64); ok {
					chunk.Distance = float32(d)
				}
				chunk.Vector = parseVector(additional["vector"])
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// HasFingerprint reports whether chunks for this document are already
// indexed, so re-uploading a known document skips re-embedding.
func (s *WeaviateStore) HasFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	where := filters.Where().
		WithPath([]string{"fingerprint"}).
		WithOperator(filters.Equal).
		WithValueString(fingerprint)

	result, err := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(graphql.Field{Name: "fingerprint"}).
		WithWhere(where).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return false, err
	}
	if result.Errors != nil {
		return false, fmt.Errorf("lookup failed: %v", result.Errors[0].Message)
	}

	data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{})
	return ok && len(data) > 0, nil
}

func (s *WeaviateStore) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	where := filters.Where().
		WithPath([]string{"fingerprint"}).
		WithOperator(filters.Equal).
		WithValueString(fingerprint)

	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(CHUNK_CLASS).
		WithWhere(where).
		Do(ctx)
	return err
}

func chunkProperties(doc Document) map[string]interface{} {
	return map[string]interface{}{
		"content":     doc.Content,
		"title":       doc.Metadata.Title,
		"source":      doc.Metadata.Source,
		"fingerprint": doc.Metadata.Fingerprint,
		"page":        doc.Metadata.Page,
		"totalPages":  doc.Metadata.TotalPages,
		"createdAt":   doc.CreatedAt,
	}
}

// NewText2VecModuleConfig configures the vectorizer module with the fixed
// embedding model identifier.
func NewText2VecModuleConfig(text2vec, embedModel string) map[string]interface{} {
	return map[string]interface{}{
		text2vec: map[string]interface{}{
			"model":              embedModel,
			"vectorizeClassName": false,
		},
	}
}

// Helper functions
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	f, _ := v.(float64)
	return int(f)
}

func parseVector(v interface{}) []float32 {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	vec := make([]float32, 0, len(arr))
	for _, item := range arr {
		f, ok := item.(float64)
		if !ok {
			return nil
		}
		vec = append(vec, float32(f))
	}
	return vec
}
