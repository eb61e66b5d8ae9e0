package evidence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Asset), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Asset, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*Asset), args.Error(1)
}

func TestExists_OwnedAsset(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "", "")

	repo.On("GetByID", mock.Anything, "ev-1").Return(&Asset{ID: "ev-1", OwnerID: 10}, nil)

	ok, err := svc.Exists(context.Background(), "ev-1", 10)

	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestExists_ForeignAssetRejected(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "", "")

	repo.On("GetByID", mock.Anything, "ev-1").Return(&Asset{ID: "ev-1", OwnerID: 10}, nil)

	ok, err := svc.Exists(context.Background(), "ev-1", 20)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestExists_MissingAsset(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "", "")

	repo.On("GetByID", mock.Anything, "ev-x").Return(nil, ErrNotFound)

	ok, err := svc.Exists(context.Background(), "ev-x", 10)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "call-recording", sanitizeName("call-recording.mp4"))
	assert.Equal(t, "my_screenshot", sanitizeName("../../my screenshot.png"))
	assert.Equal(t, "file", sanitizeName(".png"))
}
