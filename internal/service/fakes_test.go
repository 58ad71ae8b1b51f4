package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/events"
	"github.com/hostdesk/hosting-service/internal/panel"
)

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		types = append(types, e.Type)
	}
	return types
}

// fakeAccountRepo is an in-memory HostingAccountRepository.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.HostingAccount
	order    []string
	nextID   int64

	createErr error
	updateErr error
	existsErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*domain.HostingAccount{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.HostingAccount) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.accounts[account.Username] = &copied
	r.order = append(r.order, account.Username)
	return nil
}

func (r *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*domain.HostingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) ListByOwner(_ context.Context, ownerUserID int64) ([]domain.HostingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.HostingAccount
	for _, username := range r.order {
		if r.accounts[username].OwnerUserID == ownerUserID {
			out = append(out, *r.accounts[username])
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) ListByStatus(_ context.Context, status domain.AccountStatus) ([]domain.HostingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.HostingAccount
	for _, username := range r.order {
		if r.accounts[username].Status == status {
			out = append(out, *r.accounts[username])
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) ListActiveExpired(_ context.Context, asOf time.Time) ([]domain.HostingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.HostingAccount
	for _, username := range r.order {
		account := r.accounts[username]
		if account.Status == domain.AccountStatusActive && account.ExpiresAt.Before(asOf) {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) UpdateStatus(_ context.Context, username string, status domain.AccountStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[username]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Status = status
	account.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAccountRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[username]
	return ok, nil
}

// fakeBackupRepo is an in-memory BackupRepository.
type fakeBackupRepo struct {
	mu      sync.Mutex
	records []domain.BackupRecord
	nextID  int64

	createErr error
}

func (r *fakeBackupRepo) Create(_ context.Context, backup *domain.BackupRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	backup.ID = r.nextID
	if backup.CreatedAt.IsZero() {
		backup.CreatedAt = time.Now()
	}
	r.records = append(r.records, *backup)
	return nil
}

func (r *fakeBackupRepo) ListByAccount(_ context.Context, username string) ([]domain.BackupRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BackupRecord
	for _, record := range r.records {
		if record.Username == username {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeBackupRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []domain.BackupRecord
	var removed int64
	for _, record := range r.records {
		if record.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	r.records = kept
	return removed, nil
}

// fakeDatabaseRepo is an in-memory DatabaseRepository.
type fakeDatabaseRepo struct {
	mu      sync.Mutex
	records []domain.DatabaseRecord
	nextID  int64
}

func (r *fakeDatabaseRepo) Create(_ context.Context, record *domain.DatabaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeDatabaseRepo) ListByAccount(_ context.Context, username string) ([]domain.DatabaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DatabaseRecord
	for _, record := range r.records {
		if record.Username == username {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeDatabaseRepo) Exists(_ context.Context, username, dbName, dbUser string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.Username == username && record.DBName == dbName && record.DBUser == dbUser {
			return true, nil
		}
	}
	return false, nil
}

// fakePlanRepo is an in-memory PlanRepository.
type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]domain.Plan
}

func newFakePlanRepo(plans ...domain.Plan) *fakePlanRepo {
	repo := &fakePlanRepo{plans: map[string]domain.Plan{}}
	for _, plan := range plans {
		repo.plans[plan.ID] = plan
	}
	return repo
}

func (r *fakePlanRepo) Upsert(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.UpdatedAt = time.Now()
	r.plans[plan.ID] = *plan
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[planID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.plans, planID)
	return nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, planID string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[planID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &plan, nil
}

func (r *fakePlanRepo) List(_ context.Context) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Plan, 0, len(r.plans))
	for _, plan := range r.plans {
		out = append(out, plan)
	}
	return out, nil
}

// fakeSettingsRepo holds one settings row in memory.
type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings domain.Settings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := r.settings
	return &copied, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = *settings
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		existing.Username = user.Username
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		*user = *existing
		return nil
	}
	user.Active = true
	user.RegisteredAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, userID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = active
	return nil
}

func (r *fakeUserRepo) SetAdmin(_ context.Context, userID int64, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsAdmin = isAdmin
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

// fakeTicketRepo mirrors the counter-backed ticket store: IDs are allocated
// from a single counter under lock, so they stay contiguous from 1.
type fakeTicketRepo struct {
	mu      sync.Mutex
	counter int64
	tickets map[int64]*domain.Ticket
	nextMsg int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, userID int64, subject string, first *domain.TicketMessage) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	r.nextMsg++

	now := time.Now()
	first.ID = r.nextMsg
	first.TicketID = r.counter
	first.CreatedAt = now

	ticket := &domain.Ticket{
		ID:        r.counter,
		UserID:    userID,
		Subject:   subject,
		Status:    domain.TicketStatusOpen,
		Messages:  []domain.TicketMessage{*first},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.tickets[ticket.ID] = ticket
	copied := r.copyLocked(ticket.ID)
	return copied, nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, ticketID int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticketID]; !ok {
		return nil, pgx.ErrNoRows
	}
	return r.copyLocked(ticketID), nil
}

func (r *fakeTicketRepo) AddMessage(_ context.Context, ticketID int64, msg *domain.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	r.nextMsg++
	msg.ID = r.nextMsg
	msg.TicketID = ticketID
	msg.CreatedAt = time.Now()
	ticket.Messages = append(ticket.Messages, *msg)
	ticket.UpdatedAt = msg.CreatedAt
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return r.copyLocked(ticketID), nil
}

func (r *fakeTicketRepo) ListByUser(_ context.Context, userID int64) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for id := int64(1); id <= r.counter; id++ {
		if ticket, ok := r.tickets[id]; ok && ticket.UserID == userID {
			out = append(out, *r.copyLocked(id))
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByStatus(_ context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for id := int64(1); id <= r.counter; id++ {
		if ticket, ok := r.tickets[id]; ok && ticket.Status == status {
			out = append(out, *r.copyLocked(id))
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) copyLocked(ticketID int64) *domain.Ticket {
	ticket := r.tickets[ticketID]
	copied := *ticket
	copied.Messages = append([]domain.TicketMessage{}, ticket.Messages...)
	return &copied
}

// fakePanel records panel calls and injects per-operation failures.
type fakePanel struct {
	mu    sync.Mutex
	calls []string

	createUserErr error
	suspendErr    error
	unsuspendErr  error
	deleteErr     error
	databaseErr   error
	backupErr     error
	domainErr     error
	packageErr    error
	usage         string
	usageErr      error
	info          string
	infoErr       error
}

func (p *fakePanel) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakePanel) callCount(call string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, c := range p.calls {
		if c == call {
			count++
		}
	}
	return count
}

func (p *fakePanel) CreateUser(_ context.Context, params panel.CreateUserParams) (string, error) {
	p.record("create_user:" + params.Username)
	if p.createUserErr != nil {
		return "", p.createUserErr
	}
	return "created", nil
}

func (p *fakePanel) SuspendUser(_ context.Context, username string) error {
	p.record("suspend:" + username)
	return p.suspendErr
}

func (p *fakePanel) UnsuspendUser(_ context.Context, username string) error {
	p.record("unsuspend:" + username)
	return p.unsuspendErr
}

func (p *fakePanel) DeleteUser(_ context.Context, username string) error {
	p.record("delete:" + username)
	return p.deleteErr
}

func (p *fakePanel) CreateDatabase(_ context.Context, dbName, dbUser, _ string) error {
	p.record("create_database:" + dbName + ":" + dbUser)
	return p.databaseErr
}

func (p *fakePanel) CreateBackup(_ context.Context, username string) error {
	p.record("create_backup:" + username)
	return p.backupErr
}

func (p *fakePanel) AddDomain(_ context.Context, username, domainName string) error {
	p.record("add_domain:" + username + ":" + domainName)
	return p.domainErr
}

func (p *fakePanel) CreatePackage(_ context.Context, params panel.PackageParams) error {
	p.record("create_package:" + params.Name)
	return p.packageErr
}

func (p *fakePanel) GetUserUsage(_ context.Context, username string) (string, error) {
	p.record("usage:" + username)
	if p.usageErr != nil {
		return "", p.usageErr
	}
	return p.usage, nil
}

func (p *fakePanel) GetUserInfo(_ context.Context, username string) (string, error) {
	p.record("info:" + username)
	if p.infoErr != nil {
		return "", p.infoErr
	}
	return p.info, nil
}
