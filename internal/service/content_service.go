package service

import (
	"fmt"
	"strings"
	"time"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/audit"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/repository"
	"go-cms-admin/internal/workflow"
	"go-cms-admin/internal/ws"
	"go-cms-admin/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentService interface {
	Create(actor audit.Actor, req *ContentRequest) (*model.Content, error)
	Update(actor audit.Actor, id uuid.UUID, req *ContentRequest) (*model.Content, error)
	Delete(actor audit.Actor, ids []uuid.UUID) error
	List(actor audit.Actor, params *ContentListParams) ([]model.Content, int64, error)
	Detail(id uuid.UUID) (*model.Content, error)
	SubmitForReview(actor audit.Actor, id uuid.UUID) error
	Review(actor audit.Actor, req *ReviewRequest) error
	Archive(actor audit.Actor, id uuid.UUID) error
	History(id uuid.UUID) ([]model.ReviewRecord, error)
}

type ContentRequest struct {
	Title       string `json:"title" validate:"required"`
	Body        string `json:"body" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Cover       string `json:"cover"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=draft pending published archived"`
}

type ContentListParams struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

type ReviewRequest struct {
	ContentID uuid.UUID `json:"content_id" validate:"uuid_required"`
	Action    string    `json:"action" validate:"required,oneof=approved rejected"`
	Reason    string    `json:"reason"`
}

type contentService struct {
	contentRepo repository.ContentRepository
	reviewRepo  repository.ReviewRecordRepository
	db          *gorm.DB
	auditor     *audit.Auditor
	hub         *ws.Hub
}

func NewContentService(contentRepo repository.ContentRepository, reviewRepo repository.ReviewRecordRepository, db *gorm.DB, auditor *audit.Auditor, hub *ws.Hub) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		reviewRepo:  reviewRepo,
		db:          db,
		auditor:     auditor,
		hub:         hub,
	}
}

// Create stores a new item. Holders of content:publish may pick any legal
// initial status; everyone else is limited to draft, with any other request
// forced to pending for review.
func (s *contentService) Create(actor audit.Actor, req *ContentRequest) (*model.Content, error) {
	var created *model.Content

	err := s.auditor.Run(actor, "content", "CREATE", "create content", req.Title, func() error {
		if !actor.Has("content:create") {
			return apperr.Permission("missing content:create permission")
		}
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		if existing, _ := s.contentRepo.FindByTitle(req.Title, uuid.Nil); existing != nil {
			return apperr.Conflict("content title already exists")
		}

		status := model.ContentStatus(req.Status)
		if status == "" {
			status = model.StatusDraft
		}
		if !workflow.IsValidStatus(status) {
			return apperr.Validation("invalid content status")
		}
		if !actor.Has("content:publish") && status != model.StatusDraft {
			status = model.StatusPending
		}

		content := &model.Content{
			Title:        req.Title,
			Body:         req.Body,
			Category:     req.Category,
			Cover:        req.Cover,
			Description:  req.Description,
			Status:       status,
			ReviewStatus: model.ReviewNotReviewed,
			AuthorID:     actor.UserID,
		}
		content.CreatedBy = actor.Username
		content.UpdatedBy = actor.Username

		if err := s.contentRepo.Create(content); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("content title already exists")
			}
			return err
		}

		created = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("content_created", created, actor)
	return created, nil
}

// Update edits an item. The author never changes; the updater does.
func (s *contentService) Update(actor audit.Actor, id uuid.UUID, req *ContentRequest) (*model.Content, error) {
	var updated *model.Content

	err := s.auditor.Run(actor, "content", "UPDATE", "update content", id, func() error {
		if !actor.Has("content:update") {
			return apperr.Permission("missing content:update permission")
		}
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}

		if _, err := s.contentRepo.FindByID(id); err != nil {
			return apperr.NotFound("content not found")
		}

		if existing, _ := s.contentRepo.FindByTitle(req.Title, id); existing != nil {
			return apperr.Conflict("content title already exists")
		}

		fields := map[string]interface{}{
			"title":       req.Title,
			"body":        req.Body,
			"category":    req.Category,
			"cover":       req.Cover,
			"description": req.Description,
			"updater_id":  actor.UserID,
			"updated_by":  actor.Username,
		}
		if err := s.contentRepo.Updates(id, fields); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("content title already exists")
			}
			return err
		}

		var err error
		updated, err = s.contentRepo.FindByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *contentService) Delete(actor audit.Actor, ids []uuid.UUID) error {
	return s.auditor.Run(actor, "content", "DELETE", "delete contents", ids, func() error {
		if !actor.Has("content:delete") {
			return apperr.Permission("missing content:delete permission")
		}
		if len(ids) == 0 {
			return apperr.Validation("content ids are required")
		}
		return s.contentRepo.Delete(ids, actor.Username)
	})
}

// List applies the caller's visibility tier: viewAll sees everything,
// viewPublished sees own items plus others' published ones, everyone else
// sees published only. viewAll wins when both are held.
func (s *contentService) List(actor audit.Actor, params *ContentListParams) ([]model.Content, int64, error) {
	q := repository.ContentQuery{
		Title:    params.Title,
		Category: params.Category,
		Status:   model.ContentStatus(params.Status),
		Page:     params.Page,
		PageSize: params.PageSize,
		Visibility: repository.Visibility{
			All:              actor.Has("content:viewAll"),
			OwnPlusPublished: actor.Has("content:viewPublished"),
			UserID:           actor.UserID,
		},
	}
	return s.contentRepo.List(q)
}

func (s *contentService) Detail(id uuid.UUID) (*model.Content, error) {
	content, err := s.contentRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("content not found")
	}
	return content, nil
}

// SubmitForReview moves a draft to pending. Only the author may submit,
// unless the caller holds content:submitAll.
func (s *contentService) SubmitForReview(actor audit.Actor, id uuid.UUID) error {
	err := s.auditor.Run(actor, "content", "UPDATE", "submit content for review", id, func() error {
		content, err := s.contentRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("content not found")
		}

		if content.AuthorID != actor.UserID && !actor.Has("content:submitAll") {
			return apperr.Permission("only the author can submit this content")
		}

		if err := workflow.ValidateTransition(content.Status, model.StatusPending); err != nil {
			return err
		}

		return s.contentRepo.Updates(id, map[string]interface{}{
			"status":        model.StatusPending,
			"review_status": model.ReviewNotReviewed,
			"updated_by":    actor.Username,
		})
	})
	return err
}

// Review executes the atomic review transaction: the status change and its
// ReviewRecord commit together or not at all. Two concurrent reviews of the
// same item are serialized by the row lock; the loser observes a status other
// than pending and fails with a state error, so no decision is ever lost.
func (s *contentService) Review(actor audit.Actor, req *ReviewRequest) error {
	var reviewed *model.Content

	err := s.auditor.Run(actor, "content", "REVIEW", "review content", req, func() error {
		if !actor.Has("content:review") {
			return apperr.Permission("missing content:review permission")
		}
		if errs := validator.ValidateStruct(req); len(errs) > 0 {
			firstErr := errs[0]
			return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
		}
		action := model.ReviewAction(req.Action)
		if action == model.ActionRejected && strings.TrimSpace(req.Reason) == "" {
			return apperr.Validation("a rejection reason is mandatory")
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			var content model.Content
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&content, "id = ?", req.ContentID).Error; err != nil {
				if repository.IsNotFound(err) {
					return apperr.NotFound("content not found")
				}
				return err
			}

			if content.Status != model.StatusPending {
				return apperr.State(fmt.Sprintf("only pending content can be reviewed, current status: %s", content.Status))
			}

			newStatus, reviewStatus := workflow.ReviewOutcome(action)
			now := time.Now()

			if err := tx.Model(&model.Content{}).Where("id = ?", content.ID).Updates(map[string]interface{}{
				"status":           newStatus,
				"review_status":    reviewStatus,
				"last_reviewed_by": actor.UserID,
				"last_reviewed_at": now,
				"rejection_reason": req.Reason,
				"updated_by":       actor.Username,
			}).Error; err != nil {
				return err
			}

			record := &model.ReviewRecord{
				ContentID:      content.ID,
				ReviewerID:     actor.UserID,
				Action:         action,
				Reason:         req.Reason,
				PreviousStatus: content.Status,
				NewStatus:      newStatus,
			}
			record.CreatedBy = actor.Username
			if err := s.reviewRepo.CreateTx(tx, record); err != nil {
				return err
			}

			content.Status = newStatus
			content.ReviewStatus = reviewStatus
			reviewed = &content
			return nil
		})
		if err != nil {
			if apperr.KindOf(err) != 0 {
				return err
			}
			if repository.IsDuplicateKey(err) {
				return apperr.Conflict("content is being reviewed by someone else")
			}
			return apperr.Wrap(apperr.KindTransaction, "review failed, please retry", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish("content_reviewed", reviewed, actor)
	return nil
}

// Archive retires a published item. Terminal: nothing leaves archived.
func (s *contentService) Archive(actor audit.Actor, id uuid.UUID) error {
	var archived *model.Content

	err := s.auditor.Run(actor, "content", "UPDATE", "archive content", id, func() error {
		if !actor.Has("content:archive") {
			return apperr.Permission("missing content:archive permission")
		}

		content, err := s.contentRepo.FindByID(id)
		if err != nil {
			return apperr.NotFound("content not found")
		}

		if err := workflow.ValidateTransition(content.Status, model.StatusArchived); err != nil {
			return err
		}

		if err := s.contentRepo.Updates(id, map[string]interface{}{
			"status":     model.StatusArchived,
			"updated_by": actor.Username,
		}); err != nil {
			return err
		}

		content.Status = model.StatusArchived
		archived = content
		return nil
	})
	if err != nil {
		return err
	}

	s.publish("content_archived", archived, actor)
	return nil
}

func (s *contentService) History(id uuid.UUID) ([]model.ReviewRecord, error) {
	return s.reviewRepo.FindByContentID(id)
}

// publish broadcasts after the write committed, never from inside a
// transaction.
func (s *contentService) publish(event string, content *model.Content, actor audit.Actor) {
	if s.hub == nil || content == nil {
		return
	}
	go s.hub.PublishContentEvent(event, content.ID.String(), content.Title, string(content.Status), actor.Username)
}
