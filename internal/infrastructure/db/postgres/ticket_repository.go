package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// TicketRepository reads tickets with their joins in one listing call and
// writes only the columns each operation owns.
type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	var rows []ticketModel
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Assignee").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Author").
		Order("created_at DESC, friendly_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	out := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTicket(row))
	}
	return out, nil
}

func (r *TicketRepository) Create(ctx context.Context, t domain.NewTicket) (string, error) {
	now := time.Now().UTC()
	row := ticketModel{
		ID:          uuid.NewString(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Department:  t.Department,
		RequesterID: t.RequesterID,
		AssigneeID:  nullable(t.AssigneeID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert ticket: %w", err)
	}
	return row.ID, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	return r.update(ctx, ticketID, map[string]any{"status": string(status)})
}

func (r *TicketRepository) Assign(ctx context.Context, ticketID, assigneeID string) error {
	return r.update(ctx, ticketID, map[string]any{"assignee_id": nullable(assigneeID)})
}

func (r *TicketRepository) update(ctx context.Context, ticketID string, changes map[string]any) error {
	changes["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&ticketModel{}).
		Where("id = ?", ticketID).
		Updates(changes)
	if res.Error != nil {
		return fmt.Errorf("update ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// AddComment inserts the comment and bumps the ticket's updated_at.
func (r *TicketRepository) AddComment(ctx context.Context, c domain.NewComment) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := commentModel{
			ID:         uuid.NewString(),
			TicketID:   c.TicketID,
			UserID:     c.UserID,
			Content:    c.Content,
			IsInternal: c.Internal,
			CreatedAt:  now,
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		res := tx.Model(&ticketModel{}).Where("id = ?", c.TicketID).Update("updated_at", now)
		if res.Error != nil {
			return fmt.Errorf("touch ticket: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrTicketNotFound
		}
		return nil
	})
}
