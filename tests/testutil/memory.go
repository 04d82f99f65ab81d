// Package testutil provides in-memory repositories for service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	reportRepo "carvistors/database/repository/report"
	"carvistors/models"

	"github.com/google/uuid"
)

// MemoryAccounts is a concurrency-safe AccountRepository.
type MemoryAccounts struct {
	mu       sync.Mutex
	accounts map[models.AccountKind][]models.Account

	// Lookups counts FindByID/FindByEmail calls.
	Lookups int
	// Err, when set, is returned by every method.
	Err error
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: map[models.AccountKind][]models.Account{}}
}

// Add stores an account directly and returns it with an id assigned.
func (m *MemoryAccounts) Add(kind models.AccountKind, email string) models.Account {
	a := models.Account{Email: email}
	if err := m.Create(context.Background(), kind, &a); err != nil {
		panic(err)
	}
	return a
}

// Remove deletes an account by id, simulating a concurrent deletion.
func (m *MemoryAccounts) Remove(kind models.AccountKind, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.accounts[kind]
	for i, a := range list {
		if a.ID == id {
			m.accounts[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (m *MemoryAccounts) FindByID(_ context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.accounts[kind] {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MemoryAccounts) FindByEmail(_ context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	if m.Err != nil {
		return nil, m.Err
	}
	email = models.NormalizeEmail(email)
	for _, a := range m.accounts[kind] {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MemoryAccounts) List(_ context.Context, kind models.AccountKind) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Account{}, m.accounts[kind]...), nil
}

func (m *MemoryAccounts) Count(_ context.Context, kind models.AccountKind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.accounts[kind])), nil
}

func (m *MemoryAccounts) Create(_ context.Context, kind models.AccountKind, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	a.Email = models.NormalizeEmail(a.Email)
	for _, existing := range m.accounts[kind] {
		if existing.Email == a.Email {
			return fmt.Errorf("duplicate email %s", a.Email)
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	m.accounts[kind] = append(m.accounts[kind], *a)
	return nil
}

// MemoryNotifications is a concurrency-safe NotificationRepository.
type MemoryNotifications struct {
	mu    sync.Mutex
	items []models.Notification
	clock time.Time

	// FailInsert, when set, is consulted before every insert.
	FailInsert func(models.NotificationDraft) error
	// Err, when set, is returned by every read/update method.
	Err error
}

func NewMemoryNotifications() *MemoryNotifications {
	return &MemoryNotifications{clock: time.Now().UTC()}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *MemoryNotifications) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

// All returns a copy of every stored notification in insert order.
func (m *MemoryNotifications) All() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification{}, m.items...)
}

// Len returns the number of stored notifications.
func (m *MemoryNotifications) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryNotifications) Insert(_ context.Context, d models.NotificationDraft) (*models.Notification, error) {
	if m.FailInsert != nil {
		if err := m.FailInsert(d); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	n := models.Notification{
		ID:            uuid.New().String(),
		RecipientID:   d.RecipientID,
		RecipientKind: d.RecipientKind,
		Title:         d.Title,
		Message:       d.Message,
		Category:      d.Category,
		Link:          d.Link,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.items = append(m.items, n)
	return &n, nil
}

func (m *MemoryNotifications) FindByRecipient(_ context.Context, kind models.AccountKind, id string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Notification{}
	for _, n := range m.items {
		if n.RecipientKind == kind && n.RecipientID == id {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryNotifications) MarkRead(_ context.Context, id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			if !m.items[i].Read {
				m.items[i].Read = true
				m.items[i].UpdatedAt = m.tick()
			}
			n := m.items[i]
			return &n, nil
		}
	}
	return nil, nil
}

func (m *MemoryNotifications) MarkAllRead(_ context.Context, kind models.AccountKind, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var count int64
	for i := range m.items {
		n := &m.items[i]
		if n.RecipientKind == kind && n.RecipientID == id && !n.Read {
			n.Read = true
			n.UpdatedAt = m.tick()
			count++
		}
	}
	return count, nil
}

func (m *MemoryNotifications) CountUnread(_ context.Context, kind models.AccountKind, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var count int64
	for _, n := range m.items {
		if n.RecipientKind == kind && n.RecipientID == id && !n.Read {
			count++
		}
	}
	return count, nil
}

// MemoryVinRequests is a concurrency-safe VinRequestRepository.
type MemoryVinRequests struct {
	mu    sync.Mutex
	items []models.VinRequest
}

func NewMemoryVinRequests() *MemoryVinRequests { return &MemoryVinRequests{} }

func (m *MemoryVinRequests) Create(_ context.Context, r *models.VinRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if r.RequestDate.IsZero() {
		r.RequestDate = now
	}
	r.CreatedAt, r.UpdatedAt = now, now
	m.items = append(m.items, *r)
	return nil
}

func (m *MemoryVinRequests) GetByID(_ context.Context, id string) (*models.VinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryVinRequests) FindByVINAndEmail(_ context.Context, vin, email string) (*models.VinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, r := range m.items {
		if r.VIN == vin && r.UserEmail == email {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryVinRequests) List(_ context.Context, f models.VinRequestFilter) ([]models.VinRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.VinRequest
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, r := range m.items {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.UserEmail != "" && r.UserEmail != models.NormalizeEmail(f.UserEmail) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.VIN+" "+r.UserEmail+" "+r.VehicleDetails.Vehicle), search) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].RequestDate.After(matched[j].RequestDate) })
	total := int64(len(matched))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.Limit
		if start > total {
			start = total
		}
		end := start + f.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	if matched == nil {
		matched = []models.VinRequest{}
	}
	return matched, total, nil
}

func (m *MemoryVinRequests) UpdateStatus(_ context.Context, id string, status models.VinRequestStatus) (*models.VinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			now := time.Now().UTC()
			m.items[i].Status = status
			m.items[i].UpdatedAt = now
			if status == models.StatusCompleted {
				m.items[i].CompletedDate = &now
			}
			r := m.items[i]
			return &r, nil
		}
	}
	return nil, nil
}

// MemoryReports is a concurrency-safe ReportRepository with a unique VIN.
type MemoryReports struct {
	mu    sync.Mutex
	items []models.Report

	// BeforeCreate, when set, runs before each insert under no lock.
	BeforeCreate func(*models.Report)
}

func NewMemoryReports() *MemoryReports { return &MemoryReports{} }

func (m *MemoryReports) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryReports) Create(_ context.Context, r *models.Report) error {
	if m.BeforeCreate != nil {
		m.BeforeCreate(r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.VIN = strings.ToUpper(strings.TrimSpace(r.VIN))
	for _, existing := range m.items {
		if existing.VIN == r.VIN {
			return fmt.Errorf("%w: %s", reportRepo.ErrDuplicateVIN, r.VIN)
		}
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if r.DecodedDate.IsZero() {
		r.DecodedDate = now
	}
	r.CreatedAt, r.UpdatedAt = now, now
	m.items = append(m.items, *r)
	return nil
}

func (m *MemoryReports) GetByID(_ context.Context, id string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryReports) FindByVIN(_ context.Context, vin string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vin = strings.ToUpper(strings.TrimSpace(vin))
	for _, r := range m.items {
		if r.VIN == vin {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryReports) List(_ context.Context, f models.ReportFilter) ([]models.Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []models.Report{}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, r := range m.items {
		if search != "" && !strings.Contains(strings.ToLower(r.VIN+" "+r.VehicleName+" "+r.DecodedBy), search) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].DecodedDate.After(matched[j].DecodedDate) })
	total := int64(len(matched))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := min((page-1)*f.Limit, total)
		end := min(start+f.Limit, total)
		matched = matched[start:end]
	}
	return matched, total, nil
}
