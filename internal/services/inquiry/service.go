package inquiry

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/observer"
)

var (
	// ErrNotFound is returned when the inquiry does not exist
	ErrNotFound = errors.New("inquiry not found")
	// ErrInvalidStatus is returned for a status outside the known pipeline stages
	ErrInvalidStatus = errors.New("invalid inquiry status")
)

// Service owns inquiry pipeline mutations. Every mutation writes exactly one
// inquiry_logs row, atomically with the inquiry update.
type Service struct {
	db *gorm.DB
}

// NewService creates an inquiry service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ChangeStatus moves an inquiry to a new pipeline stage. Transitions are
// deliberately unconstrained: any stage is reachable from any other.
func (s *Service) ChangeStatus(id string, newStatus models.InquiryStatus, note string, actor *models.AdminProfile) (*models.Inquiry, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var inq models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inq, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		oldStatus := inq.Status
		inq.Status = newStatus
		if err := tx.Model(&models.Inquiry{}).Where("id = ?", id).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		log := models.InquiryLog{
			InquiryID: id,
			Action:    models.LogActionStatusChange,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Note:      note,
		}
		if actor != nil {
			log.ActorID = actor.ID
			log.ActorName = actor.FullName
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}

	observer.InquiryStatusChanges.WithLabelValues(string(newStatus)).Inc()
	return &inq, nil
}

// Assign sets or clears the handling admin. Assignment is independent of the
// pipeline stage and gets its own log action.
func (s *Service) Assign(id string, assignedTo *string, actor *models.AdminProfile) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inq, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		inq.AssignedTo = assignedTo
		if err := tx.Model(&models.Inquiry{}).Where("id = ?", id).
			Update("assigned_to", assignedTo).Error; err != nil {
			return err
		}

		note := "unassigned"
		if assignedTo != nil {
			note = fmt.Sprintf("assigned to %s", *assignedTo)
		}
		log := models.InquiryLog{
			InquiryID: id,
			Action:    models.LogActionAssigned,
			Note:      note,
		}
		if actor != nil {
			log.ActorID = actor.ID
			log.ActorName = actor.FullName
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

// AddNote appends a timestamped line to the inquiry's note log and records
// a note_added entry
func (s *Service) AddNote(id, note string, actor *models.AdminProfile) (*models.Inquiry, error) {
	if note == "" {
		return nil, errors.New("note must not be empty")
	}

	var inq models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inq, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02 15:04"), note)
		if actor != nil {
			line = fmt.Sprintf("[%s] %s: %s", time.Now().UTC().Format("2006-01-02 15:04"), actor.FullName, note)
		}
		if inq.Notes != "" {
			inq.Notes += "\n"
		}
		inq.Notes += line

		if err := tx.Model(&models.Inquiry{}).Where("id = ?", id).
			Update("notes", inq.Notes).Error; err != nil {
			return err
		}

		log := models.InquiryLog{
			InquiryID: id,
			Action:    models.LogActionNoteAdded,
			Note:      note,
		}
		if actor != nil {
			log.ActorID = actor.ID
			log.ActorName = actor.FullName
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

// Delete removes an inquiry and its log trail in one transaction
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Inquiry{}, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("inquiry_id = ?", id).Delete(&models.InquiryLog{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Inquiry{}).Error
	})
}
