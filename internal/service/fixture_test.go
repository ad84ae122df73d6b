package service

import (
	"strings"
	"testing"
	"time"

	"arsip/internal/model"
	repoMocks "arsip/internal/repository/mocks"
	storeMocks "arsip/internal/storage/mocks"
)

var (
	fixedNow = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	staff  = &model.User{ID: "u-staff", Username: "budi", FullName: "Budi Santoso", IsStaff: true, IsActive: true}
	reader = &model.User{ID: "u-read", Username: "rina", IsActive: true}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func atkCategory() *model.Category {
	parent := int64(1)
	return &model.Category{ID: 3, Name: "ATK", Slug: "atk", ParentID: &parent, ParentSlug: "belanjaan", FullPath: "belanjaan/atk"}
}

func spdCategory() *model.Category {
	return &model.Category{ID: 7, Name: "SPD", Slug: "spd", FullPath: "spd"}
}

func pdfUpload(name string) UploadFile {
	body := "%PDF-1.4\n%test\n"
	return UploadFile{Name: name, Size: int64(len(body)), Content: strings.NewReader(body)}
}

// fixture bundles the mocked collaborators of the archive services.
type fixture struct {
	docs       *repoMocks.MockDocumentRepository
	spd        *repoMocks.MockSPDRepository
	categories *repoMocks.MockCategoryRepository
	employees  *repoMocks.MockEmployeeRepository
	activities *repoMocks.MockActivityRepository
	stats      *repoMocks.MockStatsRepository
	store      *storeMocks.MockStorage
}

func newFixture() *fixture {
	return &fixture{
		docs:       new(repoMocks.MockDocumentRepository),
		spd:        new(repoMocks.MockSPDRepository),
		categories: new(repoMocks.MockCategoryRepository),
		employees:  new(repoMocks.MockEmployeeRepository),
		activities: new(repoMocks.MockActivityRepository),
		stats:      new(repoMocks.MockStatsRepository),
		store:      new(storeMocks.MockStorage),
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Tx:         repoMocks.PassthroughTx{},
		Documents:  f.docs,
		SPD:        f.spd,
		Categories: f.categories,
		Employees:  f.employees,
		Activities: f.activities,
		Stats:      f.stats,
		Store:      f.store,
		Now:        func() time.Time { return fixedNow },
	}
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.docs.AssertExpectations(t)
	f.spd.AssertExpectations(t)
	f.categories.AssertExpectations(t)
	f.employees.AssertExpectations(t)
	f.activities.AssertExpectations(t)
	f.stats.AssertExpectations(t)
	f.store.AssertExpectations(t)
}
