package service

import (
	"context"
	"time"

	"prenotazioni/internal/db"
	"prenotazioni/internal/entities"
)

// Store interfaces consumed by the services. The repository package provides
// the Postgres implementations; tests substitute an in-memory fake.

type RestaurantStore interface {
	GetRestaurant(ctx context.Context, id int) (*db.Restaurant, error)
}

type CustomerStore interface {
	FindByPhone(ctx context.Context, phone string) (*db.Customer, error)
	GetOrCreate(ctx context.Context, phone, name string) (*db.Customer, error)
	Update(ctx context.Context, id int, name, email, preferences *string) (*db.Customer, error)
}

type BookingStore interface {
	SumPartySizeInWindow(ctx context.Context, restaurantID int, start, end time.Time, statuses []db.BookingStatus) (int, error)
	Create(ctx context.Context, b *db.Booking) error
	FindByConfirmationCode(ctx context.Context, code string) (*db.Booking, error)
	UpdateStatus(ctx context.Context, id int, status db.BookingStatus) (*db.Booking, error)
	ListForCustomer(ctx context.Context, customerID int, includePast bool) ([]db.Booking, error)
}

type CallLogStore interface {
	Insert(ctx context.Context, cl *db.CallLog) error
	End(ctx context.Context, id int, callEnd time.Time, status db.CallStatus, transcript, notes *string) (*db.CallLog, error)
	LinkBooking(ctx context.Context, id, bookingID int) error
	Analytics(ctx context.Context, days int) (*entities.CallAnalytics, error)
}

type MenuStore interface {
	List(ctx context.Context, restaurantID int, category string) ([]db.MenuItem, error)
	Search(ctx context.Context, restaurantID int, term string) ([]db.MenuItem, error)
	Seed(ctx context.Context, restaurantID int, items []db.MenuItem) (int, error)
}
