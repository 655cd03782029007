package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"codelm-be/internal/entity"
	"codelm-be/internal/repository/unitofwork"
	"codelm-be/pkg/database"
	"codelm-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.NotebookRepository())
	assert.NotNil(t, uow.SourceFileRepository())
	assert.NotNil(t, uow.SourceChunkRepository())
	assert.NotNil(t, uow.ChatMessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Transactional Notebook Create", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:           uuid.New(),
			Email:        "test-integration-" + uuid.New().String() + "@example.com",
			FullName:     "Integration Test User",
			PasswordHash: "not-a-real-hash",
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		notebook := &entity.Notebook{
			Id:     uuid.New(),
			Name:   "Integration Notebook",
			UserId: user.Id,
		}
		err = uow.NotebookRepository().Create(ctx, notebook)
		assert.NoError(t, err)

		file := &entity.SourceFile{
			Id:          uuid.New(),
			NotebookId:  notebook.Id,
			StorageKey:  notebook.Id.String() + "/" + uuid.New().String() + ".txt",
			DisplayName: "integration.txt",
			MimeType:    "text/plain",
			SizeBytes:   12,
			Status:      "pending",
		}
		err = uow.SourceFileRepository().Create(ctx, file)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Notebook with SourceFile in Transaction")
	})

	t.Run("Check Vector Upsert And Search", func(t *testing.T) {
		ctx := context.Background()
		collection := rag.CollectionName(uuid.New().String())

		vector := make([]float32, 768)
		vector[0] = 1.0
		chunk := &entity.SourceChunk{
			Id:             uuid.New(),
			Collection:     collection,
			Source:         "integration.txt",
			ChunkOffset:    0,
			Document:       "integration chunk",
			EmbeddingValue: vector,
		}

		err := uow.SourceChunkRepository().UpsertBulk(ctx, []*entity.SourceChunk{chunk})
		assert.NoError(t, err)

		// Re-upserting the same identity must not create a second row.
		err = uow.SourceChunkRepository().UpsertBulk(ctx, []*entity.SourceChunk{chunk})
		assert.NoError(t, err)

		count, err := uow.SourceChunkRepository().CountByCollection(ctx, collection)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		hits, err := uow.SourceChunkRepository().Search(ctx, collection, vector, 10, nil)
		assert.NoError(t, err)
		if assert.Len(t, hits, 1) {
			assert.Equal(t, "integration chunk", hits[0].Chunk.Document)
			assert.InDelta(t, 1.0, hits[0].Similarity, 0.001)
		}

		hits, err = uow.SourceChunkRepository().Search(ctx, collection, vector, 10, []string{"integration.txt"})
		assert.NoError(t, err)
		assert.Empty(t, hits)

		// Nearest-neighbor ordering: an aligned, a diagonal, and an
		// orthogonal vector must come back in that order.
		diagonal := make([]float32, 768)
		diagonal[0] = 1.0
		diagonal[1] = 1.0
		orthogonal := make([]float32, 768)
		orthogonal[1] = 1.0
		more := []*entity.SourceChunk{
			{
				Id:             uuid.New(),
				Collection:     collection,
				Source:         "integration.txt",
				ChunkOffset:    100,
				Document:       "diagonal chunk",
				EmbeddingValue: diagonal,
			},
			{
				Id:             uuid.New(),
				Collection:     collection,
				Source:         "integration.txt",
				ChunkOffset:    200,
				Document:       "orthogonal chunk",
				EmbeddingValue: orthogonal,
			},
		}
		err = uow.SourceChunkRepository().UpsertBulk(ctx, more)
		assert.NoError(t, err)

		hits, err = uow.SourceChunkRepository().Search(ctx, collection, vector, 10, nil)
		assert.NoError(t, err)
		if assert.Len(t, hits, 3) {
			assert.Equal(t, "integration chunk", hits[0].Chunk.Document)
			assert.Equal(t, "diagonal chunk", hits[1].Chunk.Document)
			assert.Equal(t, "orthogonal chunk", hits[2].Chunk.Document)
			assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
			assert.Greater(t, hits[1].Similarity, hits[2].Similarity)
		}

		err = uow.SourceChunkRepository().DeleteByCollection(ctx, collection)
		assert.NoError(t, err)

		t.Log("Successfully round-tripped a vector chunk")
	})
}
