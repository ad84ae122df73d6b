package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"arsip/internal/model"
	"arsip/internal/storage"
)

func deletedDocuments() []model.Document {
	at := day(2023, 11, 1)
	return []model.Document{
		{ID: "a", FilePath: "uploads/a.pdf", IsDeleted: true, DeletedAt: &at},
		{ID: "b", FilePath: "uploads/b.pdf", IsDeleted: true, DeletedAt: &at},
		{ID: "c", FilePath: "uploads/c.pdf", IsDeleted: true, DeletedAt: &at},
	}
}

func TestMaintenanceService_PurgeDeleted(t *testing.T) {
	ctx := context.Background()
	cutoff := fixedNow.AddDate(0, 0, -90)

	f := newFixture()
	f.docs.On("ListDeletedBefore", mock.Anything, cutoff).Return(deletedDocuments(), nil)
	f.store.On("Delete", mock.Anything, "uploads/a.pdf").Return(nil)
	f.docs.On("HardDelete", mock.Anything, "a").Return(nil)
	f.store.On("Delete", mock.Anything, "uploads/b.pdf").Return(storage.ErrObjectNotFound)
	f.docs.On("HardDelete", mock.Anything, "b").Return(nil)
	f.store.On("Delete", mock.Anything, "uploads/c.pdf").Return(errors.New("minio down"))

	res, err := NewMaintenanceService(f.deps()).PurgeDeleted(ctx, staff, 0, false)
	require.NoError(t, err)
	assert.Equal(t, cutoff, res.Cutoff)
	assert.Equal(t, 3, res.Found)
	assert.Equal(t, 2, res.Purged)
	assert.False(t, res.Outcomes[2].Purged)
	assert.Contains(t, res.Outcomes[2].Error, "minio down")
	f.assertExpectations(t)
}

func TestMaintenanceService_PurgeDryRun(t *testing.T) {
	ctx := context.Background()
	cutoff := fixedNow.AddDate(0, 0, -30)

	f := newFixture()
	f.docs.On("ListDeletedBefore", mock.Anything, cutoff).Return(deletedDocuments(), nil)

	res, err := NewMaintenanceService(f.deps()).PurgeDeleted(ctx, staff, 30, true)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 3, res.Found)
	assert.Zero(t, res.Purged)
	f.assertExpectations(t)
}

func TestMaintenanceService_PurgeRejects(t *testing.T) {
	svc := NewMaintenanceService(newFixture().deps())

	_, err := svc.PurgeDeleted(context.Background(), reader, 90, true)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.PurgeDeleted(context.Background(), staff, -1, true)
	assert.ErrorIs(t, err, ErrValidation)
}
