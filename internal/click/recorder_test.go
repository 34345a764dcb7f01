package click

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/geo"
	"shorturl-analytics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLocator struct {
	mock.Mock
}

func (m *MockLocator) Lookup(ctx context.Context, ip string) (geo.Location, bool) {
	args := m.Called(ctx, ip)
	return args.Get(0).(geo.Location), args.Bool(1)
}

type fakeStore struct {
	mu     sync.Mutex
	events []*model.ClickEvent
	err    error
}

func (s *fakeStore) Append(_ context.Context, e *model.ClickEvent) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestRecord_WithLocation(t *testing.T) {
	store := &fakeStore{}
	locator := new(MockLocator)
	locator.On("Lookup", mock.Anything, "8.8.8.8").
		Return(geo.Location{Country: "United States", City: "Mountain View"}, true).Once()
	r := NewRecorder(store, locator, Options{}, zap.NewNop().Sugar())

	event, err := r.Record(context.Background(), 7, Visit{IP: "8.8.8.8", UserAgent: "Mozilla/5.0", Referrer: "https://news.example"})

	require.NoError(t, err)
	assert.Equal(t, uint(7), event.LinkID)
	assert.Equal(t, "United States", *event.Country)
	assert.Equal(t, "Mountain View", *event.City)
	assert.Equal(t, "https://news.example", event.Referrer)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, 1, store.len())
	locator.AssertExpectations(t)
}

func TestRecord_GeoFailureStillRecords(t *testing.T) {
	store := &fakeStore{}
	locator := new(MockLocator)
	locator.On("Lookup", mock.Anything, "8.8.8.8").Return(geo.Location{}, false).Once()
	r := NewRecorder(store, locator, Options{}, zap.NewNop().Sugar())

	event, err := r.Record(context.Background(), 1, Visit{IP: "8.8.8.8"})

	require.NoError(t, err)
	assert.Nil(t, event.Country)
	assert.False(t, event.HasCountry())
	assert.Equal(t, 1, store.len())
}

func TestRecord_MissingFieldsDefaultToUnknown(t *testing.T) {
	store := &fakeStore{}
	locator := new(MockLocator)
	r := NewRecorder(store, locator, Options{}, zap.NewNop().Sugar())

	event, err := r.Record(context.Background(), 1, Visit{UserAgent: "  "})

	require.NoError(t, err)
	assert.Equal(t, model.UnknownValue, event.IP)
	assert.Equal(t, model.UnknownValue, event.UserAgent)
	assert.Equal(t, model.UnknownValue, event.Referrer)
	locator.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestRecord_GeoLookupIsBounded(t *testing.T) {
	store := &fakeStore{}
	locator := new(MockLocator)
	locator.On("Lookup", mock.Anything, "8.8.8.8").Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		<-ctx.Done()
	}).Return(geo.Location{}, false)
	r := NewRecorder(store, locator, Options{GeoTimeout: 30 * time.Millisecond}, zap.NewNop().Sugar())

	start := time.Now()
	_, err := r.Record(context.Background(), 1, Visit{IP: "8.8.8.8"})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRecord_StoreErrorReturned(t *testing.T) {
	r := NewRecorder(&fakeStore{err: apperror.ErrNotFound}, nil, Options{}, zap.NewNop().Sugar())

	_, err := r.Record(context.Background(), 1, Visit{IP: "8.8.8.8"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDispatch_SurvivesCanceledRequest(t *testing.T) {
	store := &fakeStore{}
	r := NewRecorder(store, geo.Nop{}, Options{}, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 5; i++ {
		r.Dispatch(ctx, 1, Visit{IP: "1.1.1.1"})
	}
	cancel()
	r.Wait()

	assert.Equal(t, 5, store.len())
}

func TestDispatch_ErrorIsAbsorbed(t *testing.T) {
	r := NewRecorder(&fakeStore{err: errors.New("db down")}, geo.Nop{}, Options{}, zap.NewNop().Sugar())

	assert.NotPanics(t, func() {
		r.Dispatch(context.Background(), 1, Visit{})
		r.Wait()
	})
}
