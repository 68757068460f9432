// Package ledgerstore provides the two durable backends for the
// ledger's persistent and temporary tiers: gorm/Postgres for
// long-lived admin signers and the factory's Deployed index, and
// Redis for short-lived session signers. Grounded on the teacher's own
// gorm usage (internal/models/passkey.go's TableName idiom) and the
// sibling payout-engine service's Redis-backed TTL pattern
// (internal/nonce.Manager).
package ledgerstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"passkey-smart-wallet/internal/ledger"
)

// LedgerEntry is the generic row shape backing every persistent-tier
// namespace/key pair — one table serves both the wallet's signer
// registry and the factory's Deployed map, keyed by namespace.
type LedgerEntry struct {
	Namespace string     `gorm:"primaryKey;column:namespace"`
	Key       string     `gorm:"primaryKey;column:entry_key"`
	Value     []byte     `gorm:"column:entry_value"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
}

// TableName pins the table name the way the teacher's models do.
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// GormStore implements ledger.Store against Postgres via gorm. It is
// used for the persistent tier.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an already-migrated *gorm.DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates/updates the backing table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&LedgerEntry{})
}

func (s *GormStore) Get(ctx context.Context, namespace, key string) ([]byte, time.Duration, bool, error) {
	var row LedgerEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	if row.ExpiresAt != nil {
		remaining := time.Until(*row.ExpiresAt)
		if remaining <= 0 {
			s.db.WithContext(ctx).Delete(&LedgerEntry{}, "namespace = ? AND entry_key = ?", namespace, key)
			return nil, 0, false, nil
		}
		return row.Value, remaining, true, nil
	}
	return row.Value, ledger.NoExpiry, true, nil
}

func (s *GormStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	row := LedgerEntry{Namespace: namespace, Key: key, Value: value}
	if ttl != ledger.NoExpiry {
		expires := time.Now().Add(ttl)
		row.ExpiresAt = &expires
	}

	return s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Assign(LedgerEntry{Value: value, ExpiresAt: row.ExpiresAt}).
		FirstOrCreate(&row).Error
}

func (s *GormStore) Delete(ctx context.Context, namespace, key string) error {
	return s.db.WithContext(ctx).
		Delete(&LedgerEntry{}, "namespace = ? AND entry_key = ?", namespace, key).Error
}

func (s *GormStore) ExtendTTL(ctx context.Context, namespace, key string, floor, extend time.Duration) error {
	_, remaining, found, err := s.Get(ctx, namespace, key)
	if err != nil || !found {
		return err
	}
	if remaining != ledger.NoExpiry && remaining >= floor {
		return nil
	}

	expires := time.Now().Add(extend)
	return s.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Update("expires_at", expires).Error
}
