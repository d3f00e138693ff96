package service

import (
	"context"
	"fmt"
	"time"

	"contentpilot/internal/dto"
	"contentpilot/internal/model"
	"contentpilot/internal/repository"
	"contentpilot/pkg/utils"
)

// In-memory collaborators for tracker and generation tests.

type fakeLogRepo struct {
	entries   map[uint]*model.GenerationLog
	nextID    uint
	createErr error
	findErr   error
	updateErr error
	// respectCtx makes every method fail on a done context, the way the
	// gorm-backed repository would through db.WithContext.
	respectCtx bool
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{entries: make(map[uint]*model.GenerationLog), nextID: 1}
}

func (f *fakeLogRepo) ctxErr(ctx context.Context) error {
	if f.respectCtx {
		return ctx.Err()
	}
	return nil
}

func (f *fakeLogRepo) Create(ctx context.Context, entry *model.GenerationLog, opts ...utils.DBOption) error {
	if err := f.ctxErr(ctx); err != nil {
		return err
	}
	if f.createErr != nil {
		return f.createErr
	}
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	f.nextID++
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeLogRepo) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.GenerationLog, error) {
	if err := f.ctxErr(ctx); err != nil {
		return nil, err
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	entry, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeLogRepo) Update(ctx context.Context, entry *model.GenerationLog, opts ...utils.DBOption) error {
	if err := f.ctxErr(ctx); err != nil {
		return err
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.entries[entry.ID]
	if !ok {
		return nil
	}
	stored.Status = entry.Status
	stored.ErrorMessage = entry.ErrorMessage
	stored.AIModel = entry.AIModel
	stored.DurationMs = entry.DurationMs
	stored.CostCredits = entry.CostCredits
	return nil
}

type fakeProjectRepo struct {
	projects     map[uint]*model.Project
	plans        map[uint]*model.SubscriptionPlan
	increments   map[string]int
	resetCalls   int
	resetErr     error
	limitErr     error
	incrementErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:   make(map[uint]*model.Project),
		plans:      make(map[uint]*model.SubscriptionPlan),
		increments: make(map[string]int),
	}
}

func (f *fakeProjectRepo) addProject(id uint, plan *model.SubscriptionPlan, articlesUsed int) {
	f.plans[plan.ID] = plan
	f.projects[id] = &model.Project{
		ID:           id,
		PlanID:       plan.ID,
		ArticlesUsed: articlesUsed,
		UsageResetAt: time.Now().AddDate(0, 1, 0),
	}
}

func incrementKey(projectID uint, plural string) string {
	return fmt.Sprintf("%d:%s", projectID, plural)
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	return project, nil
}

func (f *fakeProjectRepo) ResetIfNeeded(ctx context.Context, projectID uint, opts ...utils.DBOption) error {
	f.resetCalls++
	return f.resetErr
}

func (f *fakeProjectRepo) IncrementUsage(ctx context.Context, projectID uint, pluralResourceType string, opts ...utils.DBOption) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.increments[incrementKey(projectID, pluralResourceType)]++
	return nil
}

func (f *fakeProjectRepo) CheckProjectLimit(ctx context.Context, projectID uint, pluralResourceType string, opts ...utils.DBOption) (bool, error) {
	if f.limitErr != nil {
		return false, f.limitErr
	}
	project, ok := f.projects[projectID]
	if !ok {
		return true, nil
	}
	plan, ok := f.plans[project.PlanID]
	if !ok {
		return true, nil
	}
	limit := plan.LimitFor(pluralResourceType)
	if limit == model.UnlimitedUsage {
		return true, nil
	}
	return project.UsageFor(pluralResourceType) < limit, nil
}

type fakeAlertRepo struct {
	alerts    []model.AdminAlert
	createErr error
}

func (f *fakeAlertRepo) Create(ctx context.Context, alert *model.AdminAlert, opts ...utils.DBOption) error {
	if f.createErr != nil {
		return f.createErr
	}
	alert.ID = uint(len(f.alerts) + 1)
	alert.CreatedAt = time.Now()
	f.alerts = append(f.alerts, *alert)
	return nil
}

func (f *fakeAlertRepo) Get(ctx context.Context, param *repository.GetAlertParam, opts ...utils.DBOption) ([]model.AdminAlert, error) {
	return f.alerts, nil
}

func (f *fakeAlertRepo) DeleteResolvedOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	return 0, nil
}

type fakeContentRepo struct {
	articles   map[uint]*model.Article
	outlines   map[uint]*model.Outline
	images     map[uint]*model.GeneratedImage
	nextID     uint
	respectCtx bool
}

func (f *fakeContentRepo) ctxErr(ctx context.Context) error {
	if f.respectCtx {
		return ctx.Err()
	}
	return nil
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		articles: make(map[uint]*model.Article),
		outlines: make(map[uint]*model.Outline),
		images:   make(map[uint]*model.GeneratedImage),
		nextID:   1,
	}
}

func (f *fakeContentRepo) CreateArticle(ctx context.Context, article *model.Article, opts ...utils.DBOption) error {
	article.ID = f.nextID
	f.nextID++
	stored := *article
	f.articles[article.ID] = &stored
	return nil
}

func (f *fakeContentRepo) UpdateArticle(ctx context.Context, article *model.Article, opts ...utils.DBOption) error {
	if err := f.ctxErr(ctx); err != nil {
		return err
	}
	stored, ok := f.articles[article.ID]
	if !ok {
		return nil
	}
	if article.Content != "" {
		stored.Content = article.Content
	}
	if article.Status != "" {
		stored.Status = article.Status
	}
	return nil
}

func (f *fakeContentRepo) CreateOutline(ctx context.Context, outline *model.Outline, opts ...utils.DBOption) error {
	outline.ID = f.nextID
	f.nextID++
	stored := *outline
	f.outlines[outline.ID] = &stored
	return nil
}

func (f *fakeContentRepo) UpdateOutline(ctx context.Context, outline *model.Outline, opts ...utils.DBOption) error {
	if err := f.ctxErr(ctx); err != nil {
		return err
	}
	stored, ok := f.outlines[outline.ID]
	if !ok {
		return nil
	}
	if outline.Content != "" {
		stored.Content = outline.Content
	}
	if outline.Status != "" {
		stored.Status = outline.Status
	}
	return nil
}

func (f *fakeContentRepo) CreateImage(ctx context.Context, image *model.GeneratedImage, opts ...utils.DBOption) error {
	image.ID = f.nextID
	f.nextID++
	stored := *image
	f.images[image.ID] = &stored
	return nil
}

func (f *fakeContentRepo) UpdateImage(ctx context.Context, image *model.GeneratedImage, opts ...utils.DBOption) error {
	if err := f.ctxErr(ctx); err != nil {
		return err
	}
	stored, ok := f.images[image.ID]
	if !ok {
		return nil
	}
	if image.URL != "" {
		stored.URL = image.URL
	}
	if image.Status != "" {
		stored.Status = image.Status
	}
	return nil
}

type fakeAIRepo struct {
	result *dto.AIGenerationResult
	err    error
	calls  int
	// blockUntilDone holds the call until ctx expires and returns ctx.Err(),
	// mimicking a generation that outlives its deadline.
	blockUntilDone bool
}

func (f *fakeAIRepo) generate(ctx context.Context) (*dto.AIGenerationResult, error) {
	f.calls++
	if f.blockUntilDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func (f *fakeAIRepo) GenerateArticle(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	return f.generate(ctx)
}

func (f *fakeAIRepo) GenerateOutline(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	return f.generate(ctx)
}

func (f *fakeAIRepo) GenerateImage(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	return f.generate(ctx)
}

// fakeUnitOfWork runs the function without a real transaction.
type fakeUnitOfWork struct{}

func (f *fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	return fn()
}
