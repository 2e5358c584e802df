package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRestaurantFixture(t *testing.T) (*RestaurantService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.restaurant = testRestaurant()
	store.restaurant.Address = "12 Market Street"
	store.restaurant.Phone = "+15550100"
	return NewRestaurantService(store, 1), store
}

func TestDescribeHours(t *testing.T) {
	svc, _ := newRestaurantFixture(t)

	spoken := svc.Describe(context.Background(), "what are your hours")
	assert.Contains(t, spoken, "Monday: Closed")
	assert.Contains(t, spoken, "Friday: 17:00 - 23:00")
}

func TestDescribeLocation(t *testing.T) {
	svc, _ := newRestaurantFixture(t)

	spoken := svc.Describe(context.Background(), "where are you located")
	assert.Contains(t, spoken, "12 Market Street")
	assert.Contains(t, spoken, "+15550100")
}

func TestDescribeGeneral(t *testing.T) {
	svc, _ := newRestaurantFixture(t)

	spoken := svc.Describe(context.Background(), "")
	assert.Contains(t, spoken, "Welcome to La Tavola")
}

func TestDescribeRestaurantMissing(t *testing.T) {
	svc, store := newRestaurantFixture(t)
	store.restaurant = nil

	spoken := svc.Describe(context.Background(), "hours")
	assert.Contains(t, spoken, "don't have restaurant information available")
}
