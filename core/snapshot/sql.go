package snapshot

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxIdentity is the longest identity, in characters, the table accepts.
const MaxIdentity = 4096

const dialectMySQL = "mysql"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// entryRecord is the row layout of the baseline table.
type entryRecord struct {
	Identity     string    `gorm:"column:identity;primaryKey"`
	LastModified time.Time `gorm:"column:last_modified"`
}

// keyedEntryRecord is the MySQL row layout. InnoDB caps a utf8mb4 key at 3072
// bytes, so the key is a hash of the identity and the identity is a plain column.
type keyedEntryRecord struct {
	IdentityKey  string    `gorm:"column:identity_key;primaryKey"`
	Identity     string    `gorm:"column:identity"`
	LastModified time.Time `gorm:"column:last_modified"`
}

// identityKey returns the 128-bit xxh3 hash of identity, hex encoded.
func identityKey(identity string) string {
	return fmt.Sprintf("%x", xxh3.HashString128(identity).Bytes())
}

// SQLStore persists the baseline in a single table through GORM.
type SQLStore struct {
	db    *gorm.DB
	table string
	keyed bool

	mu    sync.Mutex
	ready bool
}

// NewSQLStore creates a store over the given table. The table is created on first use.
func NewSQLStore(db *gorm.DB, table string) (*SQLStore, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid baseline table name %q", table)
	}

	return &SQLStore{
		// Each operation is a single statement, no wrapping transaction needed.
		db:    db.Session(&gorm.Session{SkipDefaultTransaction: true}),
		table: table,
		keyed: db.Dialector.Name() == dialectMySQL,
	}, nil
}

// Table returns the name of the baseline table.
func (s *SQLStore) Table() string {
	return s.table
}

// MaxIdentityLength returns the longest identity, in characters, the table accepts.
func (s *SQLStore) MaxIdentityLength() int {
	return MaxIdentity
}

// FindAll returns every row ordered by identity.
func (s *SQLStore) FindAll(ctx context.Context) ([]Entry, error) {
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}

	var records []entryRecord
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select("identity", "last_modified").
		Order("identity").
		Find(&records).Error
	if err != nil {
		return nil, storageErr("find all", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, NewEntry(r.Identity, r.LastModified))
	}
	return entries, nil
}

// InsertOrUpdate upserts the row in one statement.
func (s *SQLStore) InsertOrUpdate(ctx context.Context, entry Entry) error {
	if n := utf8.RuneCountInString(entry.Identity); n > MaxIdentity {
		return fmt.Errorf("%w: %w: %d characters, limit %d", ErrStorage, ErrIdentityTooLong, n, MaxIdentity)
	}
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	var record any = &entryRecord{
		Identity:     entry.Identity,
		LastModified: entry.LastModified,
	}
	conflict := "identity"
	if s.keyed {
		record = &keyedEntryRecord{
			IdentityKey:  identityKey(entry.Identity),
			Identity:     entry.Identity,
			LastModified: entry.LastModified,
		}
		conflict = "identity_key"
	}

	err := s.db.WithContext(ctx).
		Table(s.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: conflict}},
			DoUpdates: clause.AssignmentColumns([]string{"last_modified"}),
		}).
		Create(record).Error
	if err != nil {
		return storageErr("insert or update "+entry.Identity, err)
	}
	return nil
}

// ClearAll deletes every row. DELETE is used over TRUNCATE so MySQL keeps it transactional.
func (s *SQLStore) ClearAll(ctx context.Context) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM `%s`", s.table)).Error; err != nil {
		return storageErr("clear all", err)
	}
	return nil
}

func (s *SQLStore) ensureTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(s.createTableQuery()).Error; err != nil {
		return storageErr("create table", err)
	}
	s.ready = true
	return nil
}

func (s *SQLStore) createTableQuery() string {
	if s.keyed {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
			"`identity_key` CHAR(32) NOT NULL, "+
			"`identity` VARCHAR(%d) NOT NULL, "+
			"`last_modified` DATETIME(6) NOT NULL, "+
			"PRIMARY KEY (`identity_key`)"+
			") DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin", s.table, MaxIdentity)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"`identity` VARCHAR(%d) NOT NULL, "+
		"`last_modified` DATETIME NOT NULL, "+
		"PRIMARY KEY (`identity`))", s.table, MaxIdentity)
}
