package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder captures the SQL gorm builds so the statement shape can be
// asserted without a live database.
type sqlRecorder struct {
	sqls []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}
func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.sqls = append(r.sqls, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	if len(r.sqls) == 0 {
		t.Fatal("no SQL statement was built")
	}
	return r.sqls[len(r.sqls)-1]
}

func newRecordingDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	// sqlmock accepts any query and returns no rows; the recorder captures
	// the SQL gorm actually sends so the statement shape can be asserted.
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(
		sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error { return nil }),
	))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	mock.ExpectQuery("").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: mockDB,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	return db, rec
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	db, rec := newRecordingDB(t)
	repo := NewSourceChunkRepository(db)

	_, err := repo.Search(context.Background(), "notebook_x", []float32{1, 0}, 10, nil)
	assert.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, "1 - (embedding_value <=>")
	// Nearest neighbors first; id only breaks similarity ties.
	assert.Contains(t, sql, "ORDER BY similarity DESC,id ASC")
	assert.Contains(t, sql, "LIMIT 10")
}

func TestSearchAppliesExclusionFilter(t *testing.T) {
	db, rec := newRecordingDB(t)
	repo := NewSourceChunkRepository(db)

	_, err := repo.Search(context.Background(), "notebook_x", []float32{1, 0}, 10, []string{"a.pdf", "b.pdf"})
	assert.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, "source NOT IN")
	assert.Contains(t, sql, "ORDER BY similarity DESC,id ASC")
}
