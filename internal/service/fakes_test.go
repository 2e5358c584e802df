package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"prenotazioni/internal/db"
	"prenotazioni/internal/entities"
	apperrors "prenotazioni/internal/errors"
	"prenotazioni/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. It
// implements every store interface the services depend on so a single
// instance can back a whole fixture.
type fakeStore struct {
	mu sync.Mutex

	restaurant    *db.Restaurant
	restaurantErr error

	customers   map[string]*db.Customer
	customerErr error

	bookings   []*db.Booking
	nextID     int
	sumErr     error
	createErrs []error

	callLogs  map[int]*db.CallLog
	insertErr error
	endErr    error

	menu    []db.MenuItem
	menuErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[string]*db.Customer),
		callLogs:  make(map[int]*db.CallLog),
	}
}

func (f *fakeStore) GetRestaurant(ctx context.Context, id int) (*db.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restaurantErr != nil {
		return nil, f.restaurantErr
	}
	if f.restaurant == nil || f.restaurant.ID != id {
		return nil, fmt.Errorf("restaurant %d: %w", id, apperrors.ErrNotFound)
	}
	r := *f.restaurant
	return &r, nil
}

func (f *fakeStore) FindByPhone(ctx context.Context, phone string) (*db.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	c, ok := f.customers[phone]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", phone, apperrors.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetOrCreate(ctx context.Context, phone, name string) (*db.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	if c, ok := f.customers[phone]; ok {
		cp := *c
		return &cp, nil
	}
	f.nextID++
	c := &db.Customer{
		ID:          f.nextID,
		PhoneNumber: phone,
		CreatedAt:   time.Now(),
	}
	if name != "" {
		c.Name = sql.NullString{String: name, Valid: true}
	}
	f.customers[phone] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) Update(ctx context.Context, id int, name, email, preferences *string) (*db.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.ID != id {
			continue
		}
		if name != nil {
			c.Name = sql.NullString{String: *name, Valid: true}
		}
		if email != nil {
			c.Email = sql.NullString{String: *email, Valid: true}
		}
		if preferences != nil {
			c.Preferences = sql.NullString{String: *preferences, Valid: true}
		}
		cp := *c
		return &cp, nil
	}
	return nil, fmt.Errorf("customer %d: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) SumPartySizeInWindow(ctx context.Context, restaurantID int, start, end time.Time, statuses []db.BookingStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	total := 0
	for _, b := range f.bookings {
		if b.RestaurantID != restaurantID {
			continue
		}
		if b.BookingDate.Before(start) || b.BookingDate.After(end) {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				total += b.PartySize
				break
			}
		}
	}
	return total, nil
}

func (f *fakeStore) Create(ctx context.Context, b *db.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	for _, existing := range f.bookings {
		if existing.ConfirmationCode == b.ConfirmationCode && existing.Status != db.BookingCancelled {
			return fmt.Errorf("code %s: %w", b.ConfirmationCode, repository.ErrDuplicateCode)
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeStore) FindByConfirmationCode(ctx context.Context, code string) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.bookings) - 1; i >= 0; i-- {
		if f.bookings[i].ConfirmationCode == code {
			cp := *f.bookings[i]
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("booking with code '%s': %w", code, apperrors.ErrNotFound)
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int, status db.BookingStatus) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			b.Status = status
			b.UpdatedAt = time.Now()
			cp := *b
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) ListForCustomer(ctx context.Context, customerID int, includePast bool) ([]db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Booking
	now := time.Now()
	for _, b := range f.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if !includePast && b.BookingDate.Before(now) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, cl *db.CallLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	cl.ID = f.nextID
	cp := *cl
	f.callLogs[cl.ID] = &cp
	return nil
}

func (f *fakeStore) End(ctx context.Context, id int, callEnd time.Time, status db.CallStatus, transcript, notes *string) (*db.CallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.endErr != nil {
		return nil, f.endErr
	}
	cl, ok := f.callLogs[id]
	if !ok {
		return nil, fmt.Errorf("call log %d: %w", id, apperrors.ErrNotFound)
	}
	cl.CallEnd = sql.NullTime{Time: callEnd, Valid: true}
	cl.Status = status
	cl.DurationSeconds = sql.NullInt64{Int64: int64(callEnd.Sub(cl.CallStart) / time.Second), Valid: true}
	if transcript != nil {
		cl.Transcript = sql.NullString{String: *transcript, Valid: true}
	}
	if notes != nil {
		cl.AgentNotes = sql.NullString{String: *notes, Valid: true}
	}
	cp := *cl
	return &cp, nil
}

func (f *fakeStore) LinkBooking(ctx context.Context, id, bookingID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cl, ok := f.callLogs[id]
	if !ok {
		return fmt.Errorf("call log %d: %w", id, apperrors.ErrNotFound)
	}
	cl.BookingID = sql.NullInt64{Int64: int64(bookingID), Valid: true}
	return nil
}

func (f *fakeStore) Analytics(ctx context.Context, days int) (*entities.CallAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &entities.CallAnalytics{PeriodDays: days}
	for _, cl := range f.callLogs {
		stats.TotalCalls++
		switch cl.Status {
		case db.CallCompleted:
			stats.CompletedCalls++
		case db.CallMissed:
			stats.MissedCalls++
		}
		if cl.BookingID.Valid {
			stats.BookingsCreated++
		}
	}
	return stats, nil
}

func (f *fakeStore) List(ctx context.Context, restaurantID int, category string) ([]db.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	var out []db.MenuItem
	for _, item := range f.menu {
		if item.RestaurantID != restaurantID || !item.IsAvailable {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeStore) Search(ctx context.Context, restaurantID int, term string) ([]db.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	lower := strings.ToLower(term)
	var out []db.MenuItem
	for _, item := range f.menu {
		if item.RestaurantID != restaurantID || !item.IsAvailable {
			continue
		}
		if strings.Contains(strings.ToLower(item.ItemName), lower) ||
			strings.Contains(strings.ToLower(item.Description.String), lower) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) Seed(ctx context.Context, restaurantID int, items []db.MenuItem) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.menu) > 0 {
		return 0, nil
	}
	for _, item := range items {
		f.nextID++
		item.ID = f.nextID
		item.RestaurantID = restaurantID
		f.menu = append(f.menu, item)
	}
	return len(items), nil
}

func (f *fakeStore) callLog(id int) *db.CallLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	cl, ok := f.callLogs[id]
	if !ok {
		return nil
	}
	cp := *cl
	return &cp
}

var (
	_ RestaurantStore = (*fakeStore)(nil)
	_ CustomerStore   = (*fakeStore)(nil)
	_ BookingStore    = (*fakeStore)(nil)
	_ CallLogStore    = (*fakeStore)(nil)
	_ MenuStore       = (*fakeStore)(nil)
)
