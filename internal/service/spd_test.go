package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/storage"
)

const spdKey = "uploads/spd/2024/03-Maret/SPD_AniWijaya_Samarinda_2024-03-10.pdf"

func activeEmployee() *model.Employee {
	return &model.Employee{ID: 5, NIP: "198501012010011001", Name: "Ani Wijaya", IsActive: true}
}

func spdInput() SPDInput {
	return SPDInput{
		DocumentDate: day(2024, 3, 10),
		EmployeeID:   5,
		Destination:  "samarinda",
		StartDate:    day(2024, 3, 4),
		EndDate:      day(2024, 3, 6),
	}
}

func storedSPD() *model.Document {
	return &model.Document{
		ID:           "spd-1",
		FilePath:     spdKey,
		FileName:     "SPD_AniWijaya_Samarinda_2024-03-10.pdf",
		DocumentDate: day(2024, 3, 10),
		CategoryID:   7,
		Category:     *spdCategory(),
		Version:      1,
		SPD: &model.SPDDocument{
			DocumentID:   "spd-1",
			EmployeeID:   5,
			EmployeeName: "Ani Wijaya",
			Destination:  "samarinda",
			StartDate:    day(2024, 3, 4),
			EndDate:      day(2024, 3, 6),
		},
	}
}

func TestSPDService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         func() CreateSPDInput
		setupMocks func(f *fixture)
		wantErr    error
		wantFields []string
		wantErrMsg string
	}{
		{
			name: "happy path",
			in:   func() CreateSPDInput { return CreateSPDInput{SPDInput: spdInput(), File: pdfUpload("spd.pdf")} },
			setupMocks: func(f *fixture) {
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(activeEmployee(), nil)
				f.categories.On("FindBySlug", mock.Anything, "spd").Return(spdCategory(), nil)
				f.store.On("Exists", mock.Anything, spdKey).Return(false, nil)
				f.store.On("Put", mock.Anything, spdKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: spdKey}, nil)
				f.docs.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
					return d.CategoryID == 7 && d.FilePath == spdKey && d.SPD != nil
				})).Return(nil)
				f.spd.On("Create", mock.Anything, mock.MatchedBy(func(s *model.SPDDocument) bool {
					return s.EmployeeID == 5 && s.Destination == "samarinda" && s.DestinationLabel == "Samarinda" && s.DocumentID != ""
				})).Return(nil)
				f.activities.On("Create", mock.Anything, activityWith(model.ActionCreate, "SPD Ani Wijaya ke Samarinda dibuat")).Return(nil)
			},
		},
		{
			name: "other destination uses the free text",
			in: func() CreateSPDInput {
				in := spdInput()
				in.Destination, in.DestinationOther = "other", " Tarakan "
				return CreateSPDInput{SPDInput: in, File: pdfUpload("spd.pdf")}
			},
			setupMocks: func(f *fixture) {
				key := "uploads/spd/2024/03-Maret/SPD_AniWijaya_Tarakan_2024-03-10.pdf"
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(activeEmployee(), nil)
				f.categories.On("FindBySlug", mock.Anything, "spd").Return(spdCategory(), nil)
				f.store.On("Exists", mock.Anything, key).Return(false, nil)
				f.store.On("Put", mock.Anything, key, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: key}, nil)
				f.docs.On("Create", mock.Anything, mock.Anything).Return(nil)
				f.spd.On("Create", mock.Anything, mock.MatchedBy(func(s *model.SPDDocument) bool {
					return s.DestinationOther == "Tarakan" && s.DestinationLabel == "Tarakan"
				})).Return(nil)
				f.activities.On("Create", mock.Anything, activityWith(model.ActionCreate, "SPD Ani Wijaya ke Tarakan dibuat")).Return(nil)
			},
		},
		{
			name: "other destination without text",
			in: func() CreateSPDInput {
				in := spdInput()
				in.Destination = "other"
				return CreateSPDInput{SPDInput: in, File: pdfUpload("spd.pdf")}
			},
			setupMocks: func(f *fixture) {
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(activeEmployee(), nil)
			},
			wantErr:    ErrValidation,
			wantFields: []string{"destination_other"},
		},
		{
			name: "inactive employee and reversed dates",
			in: func() CreateSPDInput {
				in := spdInput()
				in.StartDate, in.EndDate = day(2024, 3, 6), day(2024, 3, 4)
				return CreateSPDInput{SPDInput: in, File: pdfUpload("spd.pdf")}
			},
			setupMocks: func(f *fixture) {
				e := activeEmployee()
				e.IsActive = false
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(e, nil)
			},
			wantErr:    ErrValidation,
			wantFields: []string{"employee_id", "end_date"},
		},
		{
			name: "future travel dates and unknown destination",
			in: func() CreateSPDInput {
				in := spdInput()
				in.Destination = "mars"
				in.StartDate, in.EndDate = day(2024, 3, 21), day(2024, 3, 22)
				return CreateSPDInput{SPDInput: in, File: pdfUpload("spd.pdf")}
			},
			setupMocks: func(f *fixture) {
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(activeEmployee(), nil)
			},
			wantErr:    ErrValidation,
			wantFields: []string{"destination", "start_date", "end_date"},
		},
		{
			name: "unknown employee",
			in:   func() CreateSPDInput { return CreateSPDInput{SPDInput: spdInput(), File: pdfUpload("spd.pdf")} },
			setupMocks: func(f *fixture) {
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(nil, sql.ErrNoRows)
			},
			wantErr:    ErrValidation,
			wantFields: []string{"employee_id"},
		},
		{
			name: "spd row failure removes the upload",
			in:   func() CreateSPDInput { return CreateSPDInput{SPDInput: spdInput(), File: pdfUpload("spd.pdf")} },
			setupMocks: func(f *fixture) {
				f.employees.On("FindByID", mock.Anything, int64(5)).Return(activeEmployee(), nil)
				f.categories.On("FindBySlug", mock.Anything, "spd").Return(spdCategory(), nil)
				f.store.On("Exists", mock.Anything, spdKey).Return(false, nil)
				f.store.On("Put", mock.Anything, spdKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: spdKey}, nil)
				f.docs.On("Create", mock.Anything, mock.Anything).Return(nil)
				f.spd.On("Create", mock.Anything, mock.Anything).Return(errors.New("fk fail"))
				f.store.On("Delete", mock.Anything, spdKey).Return(nil)
			},
			wantErrMsg: "db save failed: fk fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)
			svc := NewSPDService(f.deps())

			doc, err := svc.Create(ctx, staff, tt.in())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				for _, field := range tt.wantFields {
					assert.Contains(t, verr.Fields, field)
				}
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				require.NotNil(t, doc.SPD)
				assert.Equal(t, doc.ID, doc.SPD.DocumentID)
			}
			f.assertExpectations(t)
		})
	}
}

func TestSPDService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("destination change renames the file", func(t *testing.T) {
		f := newFixture()
		newKey := "uploads/spd/2024/03-Maret/SPD_AniWijaya_Jakarta_2024-03-10.pdf"
		f.docs.On("FindByID", mock.Anything, "spd-1", false).Return(storedSPD(), nil)
		f.employees.On("FindByID", mock.Anything, int64(5)).Return(activeEmployee(), nil)
		f.store.On("Exists", mock.Anything, newKey).Return(false, nil)
		f.store.On("Move", mock.Anything, spdKey, newKey).Return(nil)
		f.docs.On("Update", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
			return d.Version == 2 && d.FilePath == newKey
		})).Return(nil)
		f.spd.On("Update", mock.Anything, mock.MatchedBy(func(s *model.SPDDocument) bool {
			return s.Destination == "jakarta"
		})).Return(nil)
		f.activities.On("Create", mock.Anything, activityWith(model.ActionUpdate, "SPD Ani Wijaya ke Jakarta diperbarui")).Return(nil)

		in := spdInput()
		in.Destination = "jakarta"
		doc, err := NewSPDService(f.deps()).Update(ctx, staff, "spd-1", in)
		require.NoError(t, err)
		assert.Equal(t, newKey, doc.FilePath)
		assert.Equal(t, "Jakarta", doc.SPD.DestinationLabel)
		f.assertExpectations(t)
	})

	t.Run("linked employee may since be inactive", func(t *testing.T) {
		f := newFixture()
		e := activeEmployee()
		e.IsActive = false
		f.docs.On("FindByID", mock.Anything, "spd-1", false).Return(storedSPD(), nil)
		f.employees.On("FindByID", mock.Anything, int64(5)).Return(e, nil)
		f.docs.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.spd.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.activities.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := NewSPDService(f.deps()).Update(ctx, staff, "spd-1", spdInput())
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("plain documents are not spd", func(t *testing.T) {
		f := newFixture()
		f.docs.On("FindByID", mock.Anything, "doc-1", false).Return(storedDocument(), nil)

		_, err := NewSPDService(f.deps()).Update(ctx, staff, "doc-1", spdInput())
		assert.ErrorIs(t, err, ErrNotFound)
		f.assertExpectations(t)
	})
}

func TestSPDService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.docs.On("FindByID", mock.Anything, "spd-1", false).Return(storedSPD(), nil)
	f.docs.On("SoftDelete", mock.Anything, "spd-1", fixedNow).Return(nil)
	f.activities.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.docs.On("List", mock.Anything, repository.DocumentFilter{SPDOnly: true, EmployeeID: 5, Destination: "samarinda"}, repository.PageQuery{Limit: 10}).
		Return(&repository.PageResult[model.Document]{Items: []model.Document{*storedSPD()}, Total: 1}, nil)

	svc := NewSPDService(f.deps())
	require.NoError(t, svc.Delete(ctx, staff, "spd-1"))

	res, err := svc.List(ctx, SPDFilter{EmployeeID: 5, Destination: "samarinda"}, PageParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.TotalPages)
	f.assertExpectations(t)
}

func TestSPDInput_WithDefaults(t *testing.T) {
	got := SPDInput{EndDate: day(2024, 3, 7)}.withDefaults(storedSPD())
	assert.Equal(t, int64(5), got.EmployeeID)
	assert.Equal(t, "samarinda", got.Destination)
	assert.Equal(t, day(2024, 3, 4), got.StartDate)
	assert.Equal(t, day(2024, 3, 7), got.EndDate)
	assert.Equal(t, day(2024, 3, 10), got.DocumentDate)
}
