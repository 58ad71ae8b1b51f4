package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/events"
	"github.com/hostdesk/hosting-service/internal/panel"
	"github.com/hostdesk/hosting-service/internal/persistence"
	"github.com/hostdesk/hosting-service/internal/repository"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// maxUsernameAttempts bounds the collision-suffix search when deriving a
// panel username from a domain.
const maxUsernameAttempts = 99

// HostingService orchestrates the hosting account lifecycle. The control
// panel is the source of truth: every mutation calls the panel first and
// only touches local records after the remote call succeeds.
type HostingService struct {
	accounts   repository.HostingAccountRepository
	backups    repository.BackupRepository
	databases  repository.DatabaseRepository
	plans      repository.PlanRepository
	settings   repository.SettingsRepository
	panel      panel.Client
	cache      *persistence.PanelCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// HostingDependencies bundles collaborators for the hosting service.
type HostingDependencies struct {
	AccountRepo  repository.HostingAccountRepository
	BackupRepo   repository.BackupRepository
	DatabaseRepo repository.DatabaseRepository
	PlanRepo     repository.PlanRepository
	SettingsRepo repository.SettingsRepository
	Panel        panel.Client
	Cache        *persistence.PanelCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// ProvisionResult carries the one-time credentials of a freshly provisioned
// account. The plaintext password is never persisted; this result is the
// only place it appears.
type ProvisionResult struct {
	Username string
	Password string
	Account  *domain.HostingAccount
}

// SweepReport summarizes one expiry sweep run.
type SweepReport struct {
	Checked   int
	Suspended int
	Failed    int
}

// NewHostingService constructs the service.
func NewHostingService(deps HostingDependencies) *HostingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostingService{
		accounts:   deps.AccountRepo,
		backups:    deps.BackupRepo,
		databases:  deps.DatabaseRepo,
		plans:      deps.PlanRepo,
		settings:   deps.SettingsRepo,
		panel:      deps.Panel,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateAccount provisions a hosting account: validate input, derive a free
// username, generate credentials, create the account on the panel, then
// persist the local record. A remote failure leaves no local state behind.
func (s *HostingService) CreateAccount(ctx context.Context, ownerUserID int64, packageID, domainName, email string) (*ProvisionResult, error) {
	domainName = strings.TrimSpace(strings.ToLower(domainName))
	email = strings.TrimSpace(email)

	if domainName == "" || !strings.Contains(domainName, ".") {
		return nil, apperrors.NewValidationError("a valid domain is required", map[string]any{"domain": domainName})
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email address is required", map[string]any{"email": email})
	}

	plan, err := s.plans.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown hosting plan", map[string]any{"package_id": packageID})
		}
		return nil, apperrors.MapError(err)
	}

	username, err := s.pickUsername(ctx, domainName)
	if err != nil {
		return nil, err
	}
	password, err := generatePassword()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if _, err := s.panel.CreateUser(ctx, panel.CreateUserParams{
		Username: username,
		Password: password,
		Email:    email,
		Package:  plan.ID,
		Domain:   domainName,
	}); err != nil {
		return nil, apperrors.NewProvisioningFailed("hosting account could not be provisioned", err)
	}

	account := &domain.HostingAccount{
		OwnerUserID: ownerUserID,
		Username:    username,
		Domain:      domainName,
		Email:       email,
		PackageID:   plan.ID,
		Status:      domain.AccountStatusActive,
		ExpiresAt:   s.now().Add(plan.BillingPeriod()),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// The panel account exists but the local record failed; surface
		// loudly so an operator can reconcile.
		s.logger.Error("provisioned on panel but local record failed",
			zap.String("username", username), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventAccountProvisioned,
		Username: username,
		UserID:   ownerUserID,
		Payload: events.AccountProvisionedPayload{
			Domain:    domainName,
			PackageID: plan.ID,
			ExpiresAt: account.ExpiresAt,
		},
	})

	return &ProvisionResult{Username: username, Password: password, Account: account}, nil
}

// SuspendAccount suspends the account on the panel, then mirrors the status
// locally.
func (s *HostingService) SuspendAccount(ctx context.Context, username string) error {
	return s.transition(ctx, username, domain.AccountStatusSuspended, events.EventAccountSuspended, s.panel.SuspendUser)
}

// UnsuspendAccount re-activates the account on the panel, then mirrors the
// status locally.
func (s *HostingService) UnsuspendAccount(ctx context.Context, username string) error {
	return s.transition(ctx, username, domain.AccountStatusActive, events.EventAccountUnsuspended, s.panel.UnsuspendUser)
}

// DeleteAccount removes the account from the panel and soft-deletes the
// local record. The terminal status keeps the history.
func (s *HostingService) DeleteAccount(ctx context.Context, username string) error {
	return s.transition(ctx, username, domain.AccountStatusDeleted, events.EventAccountDeleted, s.panel.DeleteUser)
}

func (s *HostingService) transition(ctx context.Context, username string, next domain.AccountStatus, eventType events.EventType, remote func(context.Context, string) error) error {
	account, err := s.getAccount(ctx, username)
	if err != nil {
		return err
	}
	if account.Status == next {
		return nil
	}
	if !account.CanTransition(next) {
		return apperrors.NewConflict("account status does not permit this operation", map[string]any{
			"status": account.Status,
		})
	}

	if err := remote(ctx, username); err != nil {
		return apperrors.NewRemoteUnavailable("control panel rejected the request", err)
	}
	if err := s.accounts.UpdateStatus(ctx, username, next); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, "info:"+username)

	s.publish(ctx, events.Event{
		Type:     eventType,
		Username: username,
		UserID:   account.OwnerUserID,
		Payload: events.AccountStatusPayload{
			OldStatus: account.Status,
			NewStatus: next,
		},
	})
	return nil
}

// CreateDatabase creates a database on the panel after verifying locally
// that the (name, user) pair is unused for this account. The local check
// runs first because a duplicate remote create cannot be rolled back.
func (s *HostingService) CreateDatabase(ctx context.Context, username, dbName, dbUser, dbPass string) (*domain.DatabaseRecord, error) {
	if strings.TrimSpace(dbName) == "" || strings.TrimSpace(dbUser) == "" || dbPass == "" {
		return nil, apperrors.NewValidationError("database name, user and password are required", nil)
	}

	account, err := s.getAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountStatusActive {
		return nil, apperrors.NewConflict("account is not active", map[string]any{"status": account.Status})
	}

	exists, err := s.databases.Exists(ctx, username, dbName, dbUser)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewDuplicateResource("database already exists for this account", map[string]any{
			"db_name": dbName,
			"db_user": dbUser,
		})
	}

	if err := s.panel.CreateDatabase(ctx, dbName, dbUser, dbPass); err != nil {
		return nil, apperrors.NewRemoteUnavailable("control panel could not create the database", err)
	}

	record := &domain.DatabaseRecord{Username: username, DBName: dbName, DBUser: dbUser}
	if err := s.databases.Create(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventDatabaseCreated,
		Username: username,
		UserID:   account.OwnerUserID,
		Payload:  events.DatabaseCreatedPayload{DBName: dbName, DBUser: dbUser},
	})
	return record, nil
}

// CreateBackup requests a full backup on the panel and appends a backup
// record on success. Failures surface to the caller; the scheduler retries
// on its next cycle.
func (s *HostingService) CreateBackup(ctx context.Context, username string) (*domain.BackupRecord, error) {
	account, err := s.getAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.panel.CreateBackup(ctx, username); err != nil {
		return nil, apperrors.NewRemoteUnavailable("control panel could not create the backup", err)
	}

	backup := &domain.BackupRecord{
		Username: username,
		Type:     domain.BackupTypeFull,
		Status:   domain.BackupStatusCompleted,
	}
	if err := s.backups.Create(ctx, backup); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventBackupCompleted,
		Username: username,
		UserID:   account.OwnerUserID,
		Payload:  events.BackupCompletedPayload{Type: backup.Type},
	})
	return backup, nil
}

// CleanupOldBackups removes backup records older than the retention window.
// Purely local and idempotent.
func (s *HostingService) CleanupOldBackups(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, apperrors.NewValidationError("retention days must be positive", nil)
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	removed, err := s.backups.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if removed > 0 {
		s.logger.Info("removed expired backups", zap.Int64("count", removed), zap.Int("retention_days", retentionDays))
	}
	return removed, nil
}

// SweepExpiredAccounts suspends every active account whose paid period has
// lapsed. A single account's failure is logged and does not stop the sweep;
// the next scheduled run retries.
func (s *HostingService) SweepExpiredAccounts(ctx context.Context) (SweepReport, error) {
	expired, err := s.accounts.ListActiveExpired(ctx, s.now())
	if err != nil {
		return SweepReport{}, apperrors.MapError(err)
	}

	report := SweepReport{Checked: len(expired)}
	for _, account := range expired {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.SuspendAccount(ctx, account.Username); err != nil {
			report.Failed++
			s.logger.Warn("expiry sweep could not suspend account",
				zap.String("username", account.Username), zap.Error(err))
			continue
		}
		report.Suspended++
	}
	return report, nil
}

// RunScheduledBackups backs up every active account when automated backups
// are enabled. Per-account failures are logged and skipped.
func (s *HostingService) RunScheduledBackups(ctx context.Context) (int, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if !settings.BackupEnabled {
		return 0, nil
	}

	active, err := s.accounts.ListByStatus(ctx, domain.AccountStatusActive)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	completed := 0
	for _, account := range active {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		if _, err := s.CreateBackup(ctx, account.Username); err != nil {
			s.logger.Warn("scheduled backup failed",
				zap.String("username", account.Username), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

// AddDomain attaches an extra domain to an existing active account.
func (s *HostingService) AddDomain(ctx context.Context, username, domainName string) error {
	domainName = strings.TrimSpace(strings.ToLower(domainName))
	if domainName == "" || !strings.Contains(domainName, ".") {
		return apperrors.NewValidationError("a valid domain is required", map[string]any{"domain": domainName})
	}

	account, err := s.getAccount(ctx, username)
	if err != nil {
		return err
	}
	if account.Status != domain.AccountStatusActive {
		return apperrors.NewConflict("account is not active", map[string]any{"status": account.Status})
	}

	if err := s.panel.AddDomain(ctx, username, domainName); err != nil {
		return apperrors.NewRemoteUnavailable("control panel could not add the domain", err)
	}
	return nil
}

// GetResourceUsage fetches the account's usage report from the panel,
// serving a cached copy when fresh.
func (s *HostingService) GetResourceUsage(ctx context.Context, username string) (string, error) {
	return s.cachedPanelRead(ctx, "usage:"+username, username, s.panel.GetUserUsage)
}

// GetAccountInfo fetches the account's panel configuration, serving a cached
// copy when fresh.
func (s *HostingService) GetAccountInfo(ctx context.Context, username string) (string, error) {
	return s.cachedPanelRead(ctx, "info:"+username, username, s.panel.GetUserInfo)
}

func (s *HostingService) cachedPanelRead(ctx context.Context, key, username string, fetch func(context.Context, string) (string, error)) (string, error) {
	if _, err := s.getAccount(ctx, username); err != nil {
		return "", err
	}
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}
	raw, err := fetch(ctx, username)
	if err != nil {
		return "", apperrors.NewRemoteUnavailable("control panel did not answer", err)
	}
	s.cache.Set(ctx, key, raw)
	return raw, nil
}

// GetUserAccounts lists the accounts owned by a user.
func (s *HostingService) GetUserAccounts(ctx context.Context, userID int64) ([]domain.HostingAccount, error) {
	accounts, err := s.accounts.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// GetAccountBackups lists backup records for an account.
func (s *HostingService) GetAccountBackups(ctx context.Context, username string) ([]domain.BackupRecord, error) {
	backups, err := s.backups.ListByAccount(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return backups, nil
}

// GetAccountDatabases lists database records for an account.
func (s *HostingService) GetAccountDatabases(ctx context.Context, username string) ([]domain.DatabaseRecord, error) {
	databases, err := s.databases.ListByAccount(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return databases, nil
}

// GetAccount fetches one account by username.
func (s *HostingService) GetAccount(ctx context.Context, username string) (*domain.HostingAccount, error) {
	return s.getAccount(ctx, username)
}

func (s *HostingService) getAccount(ctx context.Context, username string) (*domain.HostingAccount, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("hosting account", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

func (s *HostingService) pickUsername(ctx context.Context, domainName string) (string, error) {
	base := deriveUsername(domainName)

	candidate := base
	for attempt := 1; ; attempt++ {
		taken, err := s.accounts.UsernameExists(ctx, candidate)
		if err != nil {
			return "", apperrors.MapError(err)
		}
		if !taken {
			return candidate, nil
		}
		if attempt > maxUsernameAttempts {
			return "", apperrors.NewDuplicateResource("no free username could be derived from this domain", map[string]any{
				"domain": domainName,
			})
		}
		candidate = suffixUsername(base, attempt)
	}
}

func (s *HostingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
