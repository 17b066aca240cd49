package service

import (
	"errors"
	"testing"

	"go-cms-admin/internal/apperr"
	"go-cms-admin/internal/audit"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type nopRecorder struct{}

func (nopRecorder) Record(entry *model.AuditLog) error { return nil }

func testAuditor() *audit.Auditor {
	return audit.NewAuditor(nopRecorder{}, nil, zap.NewNop())
}

type fakeContentRepo struct {
	byID    map[uuid.UUID]*model.Content
	updates map[uuid.UUID]map[string]interface{}
	created []*model.Content

	createErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		byID:    map[uuid.UUID]*model.Content{},
		updates: map[uuid.UUID]map[string]interface{}{},
	}
}

func (r *fakeContentRepo) FindByID(id uuid.UUID) (*model.Content, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContentRepo) FindByTitle(title string, excludeID uuid.UUID) (*model.Content, error) {
	for _, c := range r.byID {
		if c.Title == title && c.ID != excludeID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContentRepo) List(q repository.ContentQuery) ([]model.Content, int64, error) {
	return nil, 0, nil
}

func (r *fakeContentRepo) Create(content *model.Content) error {
	if r.createErr != nil {
		return r.createErr
	}
	content.ID = uuid.New()
	r.byID[content.ID] = content
	r.created = append(r.created, content)
	return nil
}

func (r *fakeContentRepo) Updates(id uuid.UUID, fields map[string]interface{}) error {
	r.updates[id] = fields
	if c, ok := r.byID[id]; ok {
		if s, ok := fields["status"].(model.ContentStatus); ok {
			c.Status = s
		}
		if rs, ok := fields["review_status"].(model.ReviewStatus); ok {
			c.ReviewStatus = rs
		}
	}
	return nil
}

func (r *fakeContentRepo) Delete(ids []uuid.UUID, deletedBy string) error {
	for _, id := range ids {
		delete(r.byID, id)
	}
	return nil
}

type fakeReviewRepo struct {
	records   []*model.ReviewRecord
	createErr error
}

func (r *fakeReviewRepo) CreateTx(tx *gorm.DB, record *model.ReviewRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeReviewRepo) FindByContentID(contentID uuid.UUID) ([]model.ReviewRecord, error) {
	var out []model.ReviewRecord
	for _, rec := range r.records {
		if rec.ContentID == contentID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func editorActor() audit.Actor {
	return audit.Actor{
		UserID:      uuid.New(),
		Username:    "alice",
		Role:        "editor",
		Permissions: []string{"content:create", "content:update", "content:delete"},
	}
}

func reviewerActor() audit.Actor {
	return audit.Actor{
		UserID:      uuid.New(),
		Username:    "bob",
		Role:        "admin",
		Permissions: []string{"content:review", "content:archive", "content:publish", "content:create"},
	}
}

// ---- Create ----

func TestCreateRequiresPermission(t *testing.T) {
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, nil, testAuditor(), nil)

	_, err := svc.Create(audit.Actor{Username: "nobody"}, &ContentRequest{
		Title: "t", Body: "b", Category: "news",
	})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestCreateDefaultsToDraft(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)
	actor := editorActor()

	content, err := svc.Create(actor, &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, content.Status)
	assert.Equal(t, model.ReviewNotReviewed, content.ReviewStatus)
	assert.Equal(t, actor.UserID, content.AuthorID)
	assert.Equal(t, "alice", content.CreatedBy)
}

func TestCreateWithoutPublishForcesPending(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(editorActor(), &ContentRequest{
		Title: "t", Body: "b", Category: "news", Status: "published",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, content.Status)
}

func TestCreateWithPublishKeepsRequestedStatus(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(reviewerActor(), &ContentRequest{
		Title: "t", Body: "b", Category: "news", Status: "published",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, content.Status)
}

func TestCreateDuplicateTitle(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)
	actor := editorActor()

	_, err := svc.Create(actor, &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)

	_, err = svc.Create(actor, &ContentRequest{Title: "t", Body: "other", Category: "news"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateTranslatesDuplicateKey(t *testing.T) {
	repo := newFakeContentRepo()
	repo.createErr = gorm.ErrDuplicatedKey
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	_, err := svc.Create(editorActor(), &ContentRequest{Title: "t", Body: "b", Category: "news"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateValidation(t *testing.T) {
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, nil, testAuditor(), nil)

	_, err := svc.Create(editorActor(), &ContentRequest{Title: "", Body: "b", Category: "news"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// ---- SubmitForReview ----

func TestSubmitByAuthor(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)
	actor := editorActor()

	content, err := svc.Create(actor, &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)

	require.NoError(t, svc.SubmitForReview(actor, content.ID))

	fields := repo.updates[content.ID]
	require.NotNil(t, fields)
	assert.Equal(t, model.StatusPending, fields["status"])
}

func TestSubmitByNonAuthorDenied(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(editorActor(), &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)

	other := editorActor()
	err = svc.SubmitForReview(other, content.ID)
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestSubmitWithSubmitAll(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(editorActor(), &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)

	delegate := audit.Actor{UserID: uuid.New(), Username: "lead", Permissions: []string{"content:submitAll"}}
	assert.NoError(t, svc.SubmitForReview(delegate, content.ID))
}

func TestSubmitNonDraftIsStateError(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(reviewerActor(), &ContentRequest{
		Title: "t", Body: "b", Category: "news", Status: "published",
	})
	require.NoError(t, err)

	err = svc.SubmitForReview(audit.Actor{UserID: content.AuthorID, Username: "bob"}, content.ID)
	assert.Equal(t, apperr.KindState, apperr.KindOf(err))
}

// ---- Review ----

func contentRows(id uuid.UUID, status model.ContentStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "status", "review_status", "author_id"}).
		AddRow(id.String(), "hello", string(status), "not_reviewed", uuid.New().String())
}

func TestReviewRequiresPermission(t *testing.T) {
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, nil, testAuditor(), nil)

	err := svc.Review(editorActor(), &ReviewRequest{ContentID: uuid.New(), Action: "approved"})
	assert.Equal(t, apperr.KindPermission, apperr.KindOf(err))
}

func TestReviewRejectNeedsReason(t *testing.T) {
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, nil, testAuditor(), nil)

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: uuid.New(), Action: "rejected", Reason: "  "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReviewApproveCommitsStatusAndRecord(t *testing.T) {
	db, mock := mockDB(t)
	reviewRepo := &fakeReviewRepo{}
	svc := NewContentService(newFakeContentRepo(), reviewRepo, db, testAuditor(), nil)
	contentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(contentRows(contentID, model.StatusPending))
	mock.ExpectExec(`UPDATE "contents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: contentID, Action: "approved"})
	require.NoError(t, err)

	require.Len(t, reviewRepo.records, 1)
	record := reviewRepo.records[0]
	assert.Equal(t, contentID, record.ContentID)
	assert.Equal(t, model.ActionApproved, record.Action)
	assert.Equal(t, model.StatusPending, record.PreviousStatus)
	assert.Equal(t, model.StatusPublished, record.NewStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRejectReturnsToDraft(t *testing.T) {
	db, mock := mockDB(t)
	reviewRepo := &fakeReviewRepo{}
	svc := NewContentService(newFakeContentRepo(), reviewRepo, db, testAuditor(), nil)
	contentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(contentRows(contentID, model.StatusPending))
	mock.ExpectExec(`UPDATE "contents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: contentID, Action: "rejected", Reason: "needs sources"})
	require.NoError(t, err)

	require.Len(t, reviewRepo.records, 1)
	record := reviewRepo.records[0]
	assert.Equal(t, model.ActionRejected, record.Action)
	assert.Equal(t, model.StatusDraft, record.NewStatus)
	assert.Equal(t, "needs sources", record.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The losing concurrent reviewer observes a non-pending row under the lock
// and fails with a state error instead of overwriting the first decision.
func TestReviewLoserGetsStateError(t *testing.T) {
	db, mock := mockDB(t)
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, db, testAuditor(), nil)
	contentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(contentRows(contentID, model.StatusPublished))
	mock.ExpectRollback()

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: contentID, Action: "approved"})
	assert.Equal(t, apperr.KindState, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewMissingContent(t *testing.T) {
	db, mock := mockDB(t)
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, db, testAuditor(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: uuid.New(), Action: "approved"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReviewTranslatesDuplicateKeyToConflict(t *testing.T) {
	db, mock := mockDB(t)
	reviewRepo := &fakeReviewRepo{createErr: gorm.ErrDuplicatedKey}
	svc := NewContentService(newFakeContentRepo(), reviewRepo, db, testAuditor(), nil)
	contentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(contentRows(contentID, model.StatusPending))
	mock.ExpectExec(`UPDATE "contents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: contentID, Action: "approved"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

// A rejected item goes back through submit and review; the second decision
// appends to the history and leaves the first record untouched.
func TestResubmitAfterRejectionAppendsHistory(t *testing.T) {
	db, mock := mockDB(t)
	contentRepo := newFakeContentRepo()
	reviewRepo := &fakeReviewRepo{}
	svc := NewContentService(contentRepo, reviewRepo, db, testAuditor(), nil)
	author := editorActor()
	reviewer := reviewerActor()

	content, err := svc.Create(author, &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)
	require.NoError(t, svc.SubmitForReview(author, content.ID))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(contentRows(content.ID, model.StatusPending))
	mock.ExpectExec(`UPDATE "contents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, svc.Review(reviewer, &ReviewRequest{
		ContentID: content.ID, Action: "rejected", Reason: "thin sourcing",
	}))

	// mirror the committed rejection into the store the submit path reads
	content.Status = model.StatusDraft
	content.ReviewStatus = model.ReviewRejected

	require.NoError(t, svc.SubmitForReview(author, content.ID))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnRows(contentRows(content.ID, model.StatusPending))
	mock.ExpectExec(`UPDATE "contents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, svc.Review(reviewer, &ReviewRequest{
		ContentID: content.ID, Action: "approved",
	}))

	records, err := svc.History(content.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, second := records[0], records[1]
	assert.Equal(t, model.ActionRejected, first.Action)
	assert.Equal(t, "thin sourcing", first.Reason)
	assert.Equal(t, model.StatusPending, first.PreviousStatus)
	assert.Equal(t, model.StatusDraft, first.NewStatus)

	assert.Equal(t, model.ActionApproved, second.Action)
	assert.Equal(t, model.StatusPending, second.PreviousStatus)
	assert.Equal(t, model.StatusPublished, second.NewStatus)
	assert.Equal(t, reviewer.UserID, second.ReviewerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewWrapsInfraFailure(t *testing.T) {
	db, mock := mockDB(t)
	svc := NewContentService(newFakeContentRepo(), &fakeReviewRepo{}, db, testAuditor(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnError(errors.New("pq: deadlock detected"))
	mock.ExpectRollback()

	err := svc.Review(reviewerActor(), &ReviewRequest{ContentID: uuid.New(), Action: "approved"})
	assert.Equal(t, apperr.KindTransaction, apperr.KindOf(err))
}

// ---- Archive ----

func TestArchivePublished(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(reviewerActor(), &ContentRequest{
		Title: "t", Body: "b", Category: "news", Status: "published",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(reviewerActor(), content.ID))
	assert.Equal(t, model.StatusArchived, repo.updates[content.ID]["status"])
}

func TestArchiveDraftIsStateError(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewContentService(repo, &fakeReviewRepo{}, nil, testAuditor(), nil)

	content, err := svc.Create(editorActor(), &ContentRequest{Title: "t", Body: "b", Category: "news"})
	require.NoError(t, err)

	err = svc.Archive(reviewerActor(), content.ID)
	assert.Equal(t, apperr.KindState, apperr.KindOf(err))
}

// ---- List visibility ----

func TestListPassesVisibilityTier(t *testing.T) {
	captured := &capturingContentRepo{}
	svc := NewContentService(captured, &fakeReviewRepo{}, nil, testAuditor(), nil)

	viewer := audit.Actor{UserID: uuid.New(), Username: "eve"}
	_, _, err := svc.List(viewer, &ContentListParams{})
	require.NoError(t, err)
	assert.False(t, captured.query.Visibility.All)
	assert.False(t, captured.query.Visibility.OwnPlusPublished)

	editor := audit.Actor{UserID: uuid.New(), Username: "alice", Permissions: []string{"content:viewPublished"}}
	_, _, err = svc.List(editor, &ContentListParams{})
	require.NoError(t, err)
	assert.True(t, captured.query.Visibility.OwnPlusPublished)
	assert.Equal(t, editor.UserID, captured.query.Visibility.UserID)

	admin := audit.Actor{UserID: uuid.New(), Username: "root", Permissions: []string{"content:viewAll", "content:viewPublished"}}
	_, _, err = svc.List(admin, &ContentListParams{})
	require.NoError(t, err)
	assert.True(t, captured.query.Visibility.All)
}

type capturingContentRepo struct {
	fakeContentRepo
	query repository.ContentQuery
}

func (r *capturingContentRepo) List(q repository.ContentQuery) ([]model.Content, int64, error) {
	r.query = q
	return nil, 0, nil
}
