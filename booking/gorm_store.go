package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/slotbooking/booking-app/models"
)

// GormStore backs the reservation transactions with Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transact(ctx context.Context, fn func(Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) LockTimeSlot(uid string) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	res := t.tx.Raw(`
		SELECT *
		FROM time_slots
		WHERE time_slot_uid = ? FOR UPDATE
	`, uid).Scan(&slot)
	if res.Error != nil {
		return nil, res.Error
	}
	if slot.TimeSlotUID == "" {
		return nil, ErrNotFound
	}
	return &slot, nil
}

func (t *gormTx) SetTimeSlotStatus(uid string, status models.AvailabilityStatus, at time.Time) error {
	return t.tx.Model(&models.TimeSlot{}).
		Where("time_slot_uid = ?", uid).
		Updates(map[string]interface{}{
			"availability_status": status,
			"updated_at":          at,
		}).Error
}

func (t *gormTx) GetAppointment(uid string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := t.tx.Where("appointment_uid = ?", uid).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (t *gormTx) CreateAppointment(a *models.Appointment) error {
	// Nested transaction so GORM wraps the insert in a savepoint: a unique
	// violation then rolls back to the savepoint instead of poisoning the
	// surrounding transaction, and the caller can retry with a new reference.
	err := t.tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(a).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" &&
			strings.Contains(pgErr.ConstraintName, "booking_reference") {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (t *gormTx) SaveAppointment(a *models.Appointment) error {
	return t.tx.Save(a).Error
}

func (t *gormTx) CreateNotification(n *models.EmailNotification) error {
	return t.tx.Create(n).Error
}
