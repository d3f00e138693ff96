package service

import (
	"context"
	"fmt"

	"contentpilot/config"
	"contentpilot/internal/model"
	"contentpilot/internal/repository"
	"contentpilot/pkg/common"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/telegram"
	"contentpilot/pkg/utils"

	"gorm.io/datatypes"
)

// AccountingResult separates the generation bookkeeping outcome from the
// best-effort usage accounting outcome so callers and tests can assert on
// both independently.
type AccountingResult struct {
	// Logged reports whether the log entry was found and transitioned.
	Logged bool
	// UsageRecorded reports whether a project usage counter was actually
	// incremented. Always false for personal workspaces and failures.
	UsageRecorded bool
}

// GenerationTracker wraps one generation attempt with quota-aware
// start/success/failure bookkeeping inside the caller's transaction.
// None of its methods raise past the boolean/result signals: quota denial
// is a plain false, and missing log entries are warn-and-no-op.
type GenerationTracker interface {
	CheckLimit(ctx context.Context, projectID *uint, resourceType model.ResourceType, opts ...utils.DBOption) bool
	LogStart(ctx context.Context, userID uint, projectID *uint, resourceType model.ResourceType, resourceID uint, inputMetadata datatypes.JSON, opts ...utils.DBOption) (uint, error)
	LogSuccess(ctx context.Context, logID uint, aiModel string, durationMs int64, opts ...utils.DBOption) AccountingResult
	LogFailure(ctx context.Context, logID uint, errorMessage string, durationMs int64, opts ...utils.DBOption) AccountingResult
}

type generationTracker struct {
	cfg         *config.Config
	log         *logger.Logger
	logRepo     repository.GenerationLogRepository
	projectRepo repository.ProjectRepository
	alertRepo   repository.AdminAlertRepository
	notifier    *telegram.Notifier
}

func NewGenerationTracker(
	cfg *config.Config,
	log *logger.Logger,
	logRepo repository.GenerationLogRepository,
	projectRepo repository.ProjectRepository,
	alertRepo repository.AdminAlertRepository,
	notifier *telegram.Notifier,
) GenerationTracker {
	return &generationTracker{
		cfg:         cfg,
		log:         log,
		logRepo:     logRepo,
		projectRepo: projectRepo,
		alertRepo:   alertRepo,
		notifier:    notifier,
	}
}

// CheckLimit reports whether the tenant may start a new generation.
// Personal workspaces (nil projectID) are unmetered. Any usage-store
// failure fails open: a transient accounting fault never blocks a tenant.
func (t *generationTracker) CheckLimit(ctx context.Context, projectID *uint, resourceType model.ResourceType, opts ...utils.DBOption) bool {
	if projectID == nil {
		return true
	}

	if err := t.projectRepo.ResetIfNeeded(ctx, *projectID, opts...); err != nil {
		t.log.WarnContext(ctx, "Usage reset check failed, continuing",
			logger.ErrorField(err),
			logger.UintField("project_id", *projectID),
		)
	}

	allowed, err := t.projectRepo.CheckProjectLimit(ctx, *projectID, resourceType.Plural(), opts...)
	if err != nil {
		t.log.WarnContext(ctx, "Limit check failed, allowing generation (fail open)",
			logger.ErrorField(err),
			logger.UintField("project_id", *projectID),
			logger.StringField("resource_type", string(resourceType)),
		)
		return true
	}
	return allowed
}

// LogStart inserts the started entry within the caller's transaction and
// returns its id for the matching success/failure call.
func (t *generationTracker) LogStart(ctx context.Context, userID uint, projectID *uint, resourceType model.ResourceType, resourceID uint, inputMetadata datatypes.JSON, opts ...utils.DBOption) (uint, error) {
	entry := &model.GenerationLog{
		UserID:        userID,
		ProjectID:     projectID,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		Status:        model.GenerationStatusStarted,
		InputMetadata: inputMetadata,
		CostCredits:   0,
	}

	if err := t.logRepo.Create(ctx, entry, opts...); err != nil {
		return 0, fmt.Errorf("failed to create generation log: %w", err)
	}
	return entry.ID, nil
}

// LogSuccess marks the entry successful and charges the fixed credit cost.
// The project usage increment is best-effort: its failure is logged and
// does not undo the success marking.
func (t *generationTracker) LogSuccess(ctx context.Context, logID uint, aiModel string, durationMs int64, opts ...utils.DBOption) AccountingResult {
	entry := t.findOpenEntry(ctx, logID, "success", opts...)
	if entry == nil {
		return AccountingResult{}
	}

	entry.Status = model.GenerationStatusSuccess
	entry.AIModel = aiModel
	entry.DurationMs = durationMs
	entry.CostCredits = t.cfg.Generation.CostCredits

	if err := t.logRepo.Update(ctx, entry, opts...); err != nil {
		t.log.ErrorContext(ctx, "Failed to mark generation success",
			logger.ErrorField(err),
			logger.UintField("log_id", logID),
		)
		return AccountingResult{}
	}

	result := AccountingResult{Logged: true}
	if entry.ProjectID != nil {
		if err := t.projectRepo.IncrementUsage(ctx, *entry.ProjectID, entry.ResourceType.Plural(), opts...); err != nil {
			t.log.WarnContext(ctx, "Failed to increment project usage",
				logger.ErrorField(err),
				logger.UintField("project_id", *entry.ProjectID),
				logger.UintField("log_id", logID),
			)
		} else {
			result.UsageRecorded = true
		}
	}
	return result
}

// LogFailure marks the entry failed with a truncated error, forces the cost
// back to zero, and raises exactly one operator alert. Usage counters are
// never touched on failure.
func (t *generationTracker) LogFailure(ctx context.Context, logID uint, errorMessage string, durationMs int64, opts ...utils.DBOption) AccountingResult {
	entry := t.findOpenEntry(ctx, logID, "failure", opts...)
	if entry == nil {
		return AccountingResult{}
	}

	truncated := utils.TruncateString(errorMessage, model.MaxErrorMessageLength)

	entry.Status = model.GenerationStatusFailed
	entry.ErrorMessage = truncated
	entry.DurationMs = durationMs
	entry.CostCredits = 0

	if err := t.logRepo.Update(ctx, entry, opts...); err != nil {
		t.log.ErrorContext(ctx, "Failed to mark generation failure",
			logger.ErrorField(err),
			logger.UintField("log_id", logID),
		)
		return AccountingResult{}
	}

	t.createAlert(ctx, entry, truncated, opts...)
	return AccountingResult{Logged: true}
}

// findOpenEntry loads the entry and enforces the one-shot terminal
// transition: a missing or already-terminal entry yields nil with a warning.
func (t *generationTracker) findOpenEntry(ctx context.Context, logID uint, transition string, opts ...utils.DBOption) *model.GenerationLog {
	entry, err := t.logRepo.FindByID(ctx, logID, opts...)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to load generation log",
			logger.ErrorField(err),
			logger.UintField("log_id", logID),
		)
		return nil
	}
	if entry == nil {
		t.log.WarnContext(ctx, "Generation log entry not found, skipping",
			logger.UintField("log_id", logID),
			logger.StringField("transition", transition),
		)
		return nil
	}
	if entry.Status != model.GenerationStatusStarted {
		t.log.WarnContext(ctx, "Generation log entry already terminal, ignoring transition",
			logger.UintField("log_id", logID),
			logger.StringField("current_status", string(entry.Status)),
			logger.StringField("transition", transition),
		)
		return nil
	}
	return entry
}

func (t *generationTracker) createAlert(ctx context.Context, entry *model.GenerationLog, message string, opts ...utils.DBOption) {
	alert := &model.AdminAlert{
		AlertType:    common.AlertTypeGenerationFailed,
		Severity:     common.AlertSeverityWarning,
		Title:        fmt.Sprintf("%s generation failed", entry.ResourceType),
		Message:      message,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		UserID:       entry.UserID,
		ProjectID:    entry.ProjectID,
	}

	if err := t.alertRepo.Create(ctx, alert, opts...); err != nil {
		t.log.ErrorContextWithAlert(ctx, "Failed to create admin alert",
			logger.ErrorField(err),
			logger.UintField("log_id", entry.ID),
		)
		return
	}

	if t.notifier != nil {
		title := alert.Title
		utils.GoSafe(func() {
			t.notifier.Notify(context.Background(), title, message)
		})
	}
}
