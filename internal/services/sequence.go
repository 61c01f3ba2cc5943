package services

import (
	"fmt"

	"github.com/bugtrackpro/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceService hands out gap-free, collision-free increasing integers
// scoped to a (project, entity kind) pair. Bug and test case numbers come
// from here.
type SequenceService struct {
	db *gorm.DB
}

func NewSequenceService(db *gorm.DB) *SequenceService {
	return &SequenceService{db: db}
}

// Next allocates the next number for the given key. The first allocation for
// an unseen key returns 1.
//
// The increment is computed by the database inside one transaction: the
// counter row is upserted, bumped with `seq = seq + 1`, and read back while
// the row lock from the UPDATE is still held. Reading the value first and
// writing value+1 from Go would hand out duplicates under concurrent calls.
// On error no number has been handed out and the caller must not persist
// the entity it was numbering.
func (s *SequenceService) Next(projectID uint, kind string) (int, error) {
	key := models.CounterKey(projectID, kind)

	var seq int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Counter{Key: key, Seq: 0}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Counter{}).
			Where("key = ?", key).
			UpdateColumn("seq", gorm.Expr("seq + ?", 1)).Error; err != nil {
			return err
		}

		var counter models.Counter
		if err := tx.Where("key = ?", key).Take(&counter).Error; err != nil {
			return err
		}
		seq = counter.Seq
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("allocate sequence %s: %w", key, err)
	}

	return seq, nil
}
