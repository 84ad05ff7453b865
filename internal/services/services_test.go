package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/events"
	"github.com/ludicboard/ludicboard-api/internal/repository"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

type testEnv struct {
	db       *gorm.DB
	tokens   *TokenService
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
	files    *AttachmentService
	search   *SearchService
	events   *recordingPublisher
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []events.Type {
	out := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fakeSuggester struct {
	tasks []GeneratedTask
	err   error
}

func (f *fakeSuggester) GenerateTasksFromText(context.Context, string) ([]GeneratedTask, error) {
	return f.tasks, f.err
}

func newTestEnv(t *testing.T, suggester TaskSuggester) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()
	pub := &recordingPublisher{}

	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tokens := NewTokenService("test-secret", time.Hour)

	return &testEnv{
		db:       db,
		tokens:   tokens,
		auth:     NewAuthService(users, tokens, log),
		projects: NewProjectService(projects, users, repository.NewTeamRepository(db), pub, log),
		tasks:    NewTaskService(repository.NewTaskRepository(db), projects, suggester, pub, log),
		comments: NewCommentService(repository.NewCommentRepository(db), pub, log),
		files:    NewAttachmentService(repository.NewAttachmentRepository(db), log),
		search:   NewSearchService(repository.NewSearchRepository(db), projects),
		events:   pub,
	}
}

func requireStatus(t *testing.T, err error, status int) *apierrors.AppError {
	t.Helper()
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status, appErr.Message)
	return appErr
}
