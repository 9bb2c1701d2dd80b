package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/awrgmu/mixcheckin/model"
	"github.com/awrgmu/mixcheckin/utils"
)

// TakenWorkshop pairs an attendance record with the workshop it refers to,
// the shape the API returns for record/reverse/list.
type TakenWorkshop struct {
	Taken    model.Taken    `json:"taken_record"`
	Workshop model.Workshop `json:"workshop"`
}

// Ledger records and reverses workshop completions. Uniqueness of the
// (member, workshop) pair is enforced by the store's constraint rather than
// application locking, so concurrent duplicate inserts race down to one
// winner and one ErrAlreadyTaken.
type Ledger struct {
	dm     *DatabaseManager
	logger *slog.Logger
}

func NewLedger(dm *DatabaseManager, logger *slog.Logger) *Ledger {
	return &Ledger{dm: dm, logger: logger}
}

// UpsertMember inserts the member row if it is not already there. Called
// after every successful identity extraction, so an existing row is the
// common case and not an error.
func (l *Ledger) UpsertMember(ctx context.Context, memberID int) error {
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Member{ID: memberID, IsStaff: false}).Error
	})
	if err != nil {
		return fmt.Errorf("%w: upsert member %d: %v", ErrStorage, memberID, err)
	}
	return nil
}

// RecordAttendance records the fact a member took a workshop. Both sides of
// the pair must exist, and recording the same pair twice yields
// ErrAlreadyTaken from the store's unique constraint.
func (l *Ledger) RecordAttendance(ctx context.Context, memberID int, workshopID string) (*TakenWorkshop, error) {
	var out *TakenWorkshop
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			workshop, err := l.loadPair(tx, memberID, workshopID)
			if err != nil {
				return err
			}

			taken := model.Taken{
				ID:         uuid.NewString(),
				MemberID:   memberID,
				WorkshopID: workshop.ID,
			}
			if err := tx.Create(&taken).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: member %d, workshop %s", ErrAlreadyTaken, memberID, workshopID)
				}
				return fmt.Errorf("%w: insert taken record: %v", ErrStorage, err)
			}

			out = &TakenWorkshop{Taken: taken, Workshop: *workshop}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReverseAttendance deletes the record for the pair and returns what was
// deleted. The caller keys by pair, not record id, since the record id is
// never exposed before this call.
func (l *Ledger) ReverseAttendance(ctx context.Context, memberID int, workshopID string) (*TakenWorkshop, error) {
	var out *TakenWorkshop
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			workshop, err := l.loadPair(tx, memberID, workshopID)
			if err != nil {
				return err
			}

			var taken model.Taken
			if err := tx.Where("member = ? AND workshop = ?", memberID, workshop.ID).First(&taken).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: no record of member %d taking workshop %s", ErrNotFound, memberID, workshopID)
				}
				return fmt.Errorf("%w: load taken record: %v", ErrStorage, err)
			}

			if err := tx.Delete(&model.Taken{}, "id = ?", taken.ID).Error; err != nil {
				return fmt.Errorf("%w: delete taken record: %v", ErrStorage, err)
			}

			out = &TakenWorkshop{Taken: taken, Workshop: *workshop}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type takenWorkshopRow struct {
	ID           string
	Member       int
	Workshop     string
	WorkshopName string
}

// ListAttendance loads a member's completions joined with workshop names.
// Attendance history is advisory display data, so storage failures degrade
// to an empty list with a diagnostic log instead of failing the caller.
func (l *Ledger) ListAttendance(ctx context.Context, memberID int) []TakenWorkshop {
	var rows []takenWorkshopRow
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Table("taken").
			Joins("JOIN workshops ON workshops.id = taken.workshop").
			Select(`taken.id AS id,
				taken.member AS member,
				taken.workshop AS workshop,
				workshops.name AS workshop_name`).
			Where("taken.member = ?", memberID).
			Scan(&rows).Error
	})
	if err != nil {
		l.logger.Error("non-fatal error loading workshops for member", "member", memberID, "error", err)
		return []TakenWorkshop{}
	}

	return utils.Map(rows, func(r takenWorkshopRow) TakenWorkshop {
		return TakenWorkshop{
			Taken:    model.Taken{ID: r.ID, MemberID: r.Member, WorkshopID: r.Workshop},
			Workshop: model.Workshop{ID: r.Workshop, Name: r.WorkshopName},
		}
	})
}

func (l *Ledger) ListWorkshops(ctx context.Context) ([]model.Workshop, error) {
	var workshops []model.Workshop
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Find(&workshops).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list workshops: %v", ErrStorage, err)
	}
	return workshops, nil
}

func (l *Ledger) CreateWorkshop(ctx context.Context, name string) (*model.Workshop, error) {
	workshop := model.Workshop{ID: uuid.NewString(), Name: name}
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(&workshop).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create workshop: %v", ErrStorage, err)
	}
	return &workshop, nil
}

// DeleteWorkshop is shallow: taken records referencing the workshop are
// left dangling.
func (l *Ledger) DeleteWorkshop(ctx context.Context, workshopID string) error {
	err := l.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Delete(&model.Workshop{}, "id = ?", workshopID).Error
	})
	if err != nil {
		return fmt.Errorf("%w: delete workshop %s: %v", ErrStorage, workshopID, err)
	}
	return nil
}

// loadPair verifies both sides of a (member, workshop) pair exist and
// returns the workshop for the response payload.
func (l *Ledger) loadPair(tx *gorm.DB, memberID int, workshopID string) (*model.Workshop, error) {
	var member model.Member
	if err := tx.First(&member, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member %d", ErrNotFound, memberID)
		}
		return nil, fmt.Errorf("%w: load member %d: %v", ErrStorage, memberID, err)
	}

	var workshop model.Workshop
	if err := tx.First(&workshop, "id = ?", workshopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: workshop %s", ErrNotFound, workshopID)
		}
		return nil, fmt.Errorf("%w: load workshop %s: %v", ErrStorage, workshopID, err)
	}
	return &workshop, nil
}
