package session

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/sanguischat/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sanguischat/internal/dbx"
)

const (
	// TokenKey is the fixed key the credential is persisted under.
	TokenKey = "token"
	// SignedInAtKey records when the stored credential was issued to us.
	SignedInAtKey = "signed_in_at"
)

// Store persists the session credential between runs.
// Load returns "" when nothing is stored.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MetadataStore keeps the credential in the local metadata table.
type MetadataStore struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
	now  func() time.Time
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{
		db:   db,
		repo: func(q dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(q) },
		now:  time.Now,
	}
}

func (m *MetadataStore) Load(ctx context.Context) (string, error) {
	v, _, err := m.repo(m.db).Get(ctx, TokenKey)
	return v, err
}

// Save writes the credential and its sign-in time in one transaction.
func (m *MetadataStore) Save(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, m.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.repo(tx)
		if err := repo.Set(ctx, TokenKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, SignedInAtKey, m.now().UTC().Format(time.RFC3339))
	})
}

func (m *MetadataStore) Clear(ctx context.Context) error {
	return m.repo(m.db).Delete(ctx, TokenKey, SignedInAtKey)
}

// SignedInAt reports when the stored credential was saved.
func (m *MetadataStore) SignedInAt(ctx context.Context) (time.Time, bool) {
	v, ok, err := m.repo(m.db).Get(ctx, SignedInAtKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MemoryStore keeps the credential for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
