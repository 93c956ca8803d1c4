//go:build integration

package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"countryapi/internal/country/models"
	"countryapi/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "countries"))
}

func (s *PostgresStoreSuite) TestUpsertIsIdempotent() {
	ctx := context.Background()

	_, err := s.store.UpsertAll(ctx, sampleCountries())
	s.Require().NoError(err)
	first, err := s.store.FindByName(ctx, "Nigeria")
	s.Require().NoError(err)

	updated := sampleCountries()
	updated[0].Population = 1
	updated[0].Capital = strPtr("Abuja")
	_, err = s.store.UpsertAll(ctx, updated)
	s.Require().NoError(err)

	status, err := s.store.Status(ctx)
	s.Require().NoError(err)
	s.Equal(int64(len(updated)), status.TotalCountries)

	second, err := s.store.FindByName(ctx, "Nigeria")
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal(first[0].ID, second[0].ID, "row identity survives a re-ingest")
	s.Equal(int64(1), second[0].Population)
	s.Require().NotNil(second[0].Capital)
	s.Equal("Abuja", *second[0].Capital)
	s.False(second[0].LastRefreshedAt.Before(*first[0].LastRefreshedAt))
}

func (s *PostgresStoreSuite) TestUpsertRoundTripsNulls() {
	ctx := context.Background()

	_, err := s.store.UpsertAll(ctx, []models.Country{{Name: "Antarctica", Population: 1000}})
	s.Require().NoError(err)

	found, err := s.store.FindByName(ctx, "Antarctica")
	s.Require().NoError(err)
	s.Nil(found[0].Capital)
	s.Nil(found[0].CurrencyCode)
	s.Nil(found[0].ExchangeRate)
	s.Zero(found[0].EstimatedGDP)
	s.NotNil(found[0].LastRefreshedAt)
}

func (s *PostgresStoreSuite) TestUpsertChunksInsideTransaction() {
	ctx := context.Background()
	chunked := &PostgresStore{db: s.postgres.DB, chunkSize: 2}

	batch := make([]models.Country, 0, 7)
	for i := range 7 {
		batch = append(batch, models.Country{Name: fmt.Sprintf("Country %d", i), Population: int64(i)})
	}
	n, err := chunked.UpsertAll(ctx, batch)
	s.Require().NoError(err)
	s.Equal(int64(7), n)

	s.Run("failed chunk rolls back the whole batch", func() {
		bad := []models.Country{
			{Name: "Country 0", Population: 100},
			{Name: "Country 1", Population: 100},
			{Name: "Country 2", Population: 100},
			{Name: string([]byte{0xff}), Population: 100},
		}
		_, err := chunked.UpsertAll(ctx, bad)
		s.Require().Error(err)

		found, err := s.store.FindByName(ctx, "Country 0")
		s.Require().NoError(err)
		s.Equal(int64(0), found[0].Population)
	})
}

func (s *PostgresStoreSuite) TestSummaryRanksByGDP() {
	ctx := context.Background()

	empty, err := s.store.Summary(ctx)
	s.Require().NoError(err)
	s.Zero(empty.TotalCountries)
	s.Nil(empty.LastRefresh)
	s.Empty(empty.TopGDP)

	_, err = s.store.UpsertAll(ctx, sampleCountries())
	s.Require().NoError(err)

	summary, err := s.store.Summary(ctx)
	s.Require().NoError(err)
	s.Equal(int64(6), summary.TotalCountries)
	s.NotNil(summary.LastRefresh)
	s.Require().Len(summary.TopGDP, models.TopGDPLimit)
	s.Equal("Germany", summary.TopGDP[0].Name)
	s.Equal("France", summary.TopGDP[1].Name)
	s.Equal("Ghana", summary.TopGDP[2].Name)
}

func (s *PostgresStoreSuite) TestListFilters() {
	ctx := context.Background()
	_, err := s.store.UpsertAll(ctx, sampleCountries())
	s.Require().NoError(err)

	all, err := s.store.List(ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Len(all, 6)
	s.Equal("Nigeria", all[0].Name, "unsorted results keep insertion order")

	africa, err := s.store.List(ctx, models.ListFilter{Region: strPtr("Africa"), Sort: models.SortGDPDesc})
	s.Require().NoError(err)
	s.Require().Len(africa, 2)
	s.Equal("Ghana", africa[0].Name)

	euro, err := s.store.List(ctx, models.ListFilter{Currency: strPtr("EUR"), Sort: models.SortGDPAsc})
	s.Require().NoError(err)
	s.Require().Len(euro, 2)
	s.Equal("France", euro[0].Name)

	none, err := s.store.List(ctx, models.ListFilter{Region: strPtr("Atlantis")})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *PostgresStoreSuite) TestDeleteByName() {
	ctx := context.Background()
	_, err := s.store.UpsertAll(ctx, sampleCountries())
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteByName(ctx, "Japan"))
	s.ErrorIs(s.store.DeleteByName(ctx, "Japan"), ErrNotFound)

	_, err = s.store.FindByName(ctx, "Japan")
	s.ErrorIs(err, ErrNotFound)
}

// Concurrent refreshes of the same names never produce duplicate rows.
func (s *PostgresStoreSuite) TestConcurrentUpsertKeepsOneRowPerName() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.UpsertAll(ctx, sampleCountries()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	status, err := s.store.Status(ctx)
	s.Require().NoError(err)
	s.Equal(int64(6), status.TotalCountries)
}
