package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"repogrant/contexts/access-grant/grant-service/domain/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the postgres GrantStore adapter. Put and Remove run in a
// transaction that locks the row for the purchase id, so the previous
// holder they return is the one the committed write actually displaced.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Migrate creates the grants table. Called once at bootstrap.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&grantModel{})
}

func (r *Repository) Get(ctx context.Context, purchaseID string) (entities.Grant, bool, error) {
	var row grantModel
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Grant{}, false, nil
		}
		return entities.Grant{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) Put(ctx context.Context, purchaseID string, identityHandle string, now time.Time) (entities.Grant, bool, error) {
	var prev entities.Grant
	existed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row grantModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("purchase_id = ?", purchaseID).
			First(&row).
			Error
		switch {
		case err == nil:
			prev = row.toEntity()
			existed = true
			return tx.Model(&grantModel{}).
				Where("purchase_id = ?", purchaseID).
				Updates(map[string]any{
					"identity_handle": identityHandle,
					"updated_at":      now,
				}).
				Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			insert := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "purchase_id"}},
				DoUpdates: clause.Assignments(map[string]any{"identity_handle": identityHandle, "updated_at": now}),
			}).Create(&grantModel{
				PurchaseID:     purchaseID,
				IdentityHandle: identityHandle,
				GrantedAt:      now,
				UpdatedAt:      now,
			})
			return insert.Error
		default:
			return err
		}
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a create race; the conflict clause should have absorbed
			// it, but surface anything that slipped through.
			r.logger.Warn("grant upsert unique violation",
				"event", "grant_pg_unique_violation",
				"module", "access-grant/grant-service",
				"layer", "adapter",
				"purchase_id", purchaseID,
			)
		}
		return entities.Grant{}, false, err
	}
	return prev, existed, nil
}

func (r *Repository) Remove(ctx context.Context, purchaseID string) (entities.Grant, bool, error) {
	var prev entities.Grant
	existed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row grantModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("purchase_id = ?", purchaseID).
			First(&row).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		prev = row.toEntity()
		existed = true
		return tx.Where("purchase_id = ?", purchaseID).
			Delete(&grantModel{}).
			Error
	})
	if err != nil {
		return entities.Grant{}, false, err
	}
	return prev, existed, nil
}

type grantModel struct {
	PurchaseID     string    `gorm:"column:purchase_id;primaryKey"`
	IdentityHandle string    `gorm:"column:identity_handle;not null"`
	GrantedAt      time.Time `gorm:"column:granted_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (grantModel) TableName() string {
	return "grants"
}

func (m grantModel) toEntity() entities.Grant {
	return entities.Grant{
		PurchaseID:     m.PurchaseID,
		IdentityHandle: m.IdentityHandle,
		GrantedAt:      m.GrantedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
