package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"carvistors/models"
	"carvistors/services/vin"
	"carvistors/tests/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDecoder struct {
	calls int
	err   error
}

func (d *fakeDecoder) Decode(_ context.Context, v string) (*Decoded, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &Decoded{Data: map[string]any{"vin": v}, VehicleName: "2003 Honda Accord"}, nil
}

func newTestService(t *testing.T) (*DefaultReportService, *testutil.MemoryReports, *fakeDecoder) {
	t.Helper()
	repo := testutil.NewMemoryReports()
	dec := &fakeDecoder{}
	svc, err := NewDefaultReportService(repo, dec, nil)
	require.NoError(t, err)
	return svc, repo, dec
}

func TestNewDefaultReportServiceRequiresDeps(t *testing.T) {
	_, err := NewDefaultReportService(nil, &fakeDecoder{}, nil)
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a new report once per VIN", func(t *testing.T) {
		repo := testutil.NewMemoryReports()
		dec := &fakeDecoder{}
		core, logs := observer.New(zap.InfoLevel)
		svc, err := NewDefaultReportService(repo, dec, zap.New(core))
		require.NoError(t, err)

		r, created, err := svc.Decode(ctx, " 1hgcm82633a004352 ", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "1HGCM82633A004352", r.VIN)
		assert.Equal(t, "2003 Honda Accord", r.VehicleName)
		assert.Equal(t, models.DefaultDecodedBy, r.DecodedBy)
		assert.False(t, r.DecodedDate.IsZero())
		assert.Equal(t, 1, logs.FilterMessage("advanced decode report saved").Len())

		again, created, err := svc.Decode(ctx, "1HGCM82633A004352", "other@carvistors.com")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, r.ID, again.ID)
		assert.Equal(t, 1, dec.calls)
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("validates before calling the API", func(t *testing.T) {
		svc, _, dec := newTestService(t)

		_, _, err := svc.Decode(ctx, "  ", "")
		assert.ErrorIs(t, err, ErrVINRequired)
		_, _, err = svc.Decode(ctx, "1HGCM82633A00435O", "")
		assert.ErrorIs(t, err, vin.ErrInvalidVIN)
		assert.Zero(t, dec.calls)
	})

	t.Run("decoder errors save nothing", func(t *testing.T) {
		svc, repo, dec := newTestService(t)
		dec.err = fmt.Errorf("%w: VIN not found", ErrUndecodable)

		_, _, err := svc.Decode(ctx, "1HGCM82633A004352", "")
		assert.ErrorIs(t, err, ErrUndecodable)
		assert.Zero(t, repo.Len())
	})

	t.Run("concurrent save returns the winner", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		var winner models.Report
		repo.BeforeCreate = func(r *models.Report) {
			repo.BeforeCreate = nil
			winner = models.Report{VIN: r.VIN, VehicleName: "first", DecodedBy: "a@carvistors.com"}
			require.NoError(t, repo.Create(ctx, &winner))
		}

		r, created, err := svc.Decode(ctx, "1HGCM82633A004352", "b@carvistors.com")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, winner.ID, r.ID)
		assert.Equal(t, 1, repo.Len())
	})
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	for _, v := range []string{"1HGCM82633A004352", "JH4KA8260MC000000", "WBA3A5C50CF256651"} {
		require.NoError(t, repo.Create(ctx, &models.Report{VIN: v, VehicleName: "car", DecodedBy: "boss@carvistors.com"}))
	}

	list, page, err := svc.List(ctx, models.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, models.Pagination{Current: 1, Pages: 1, Total: 3}, page)

	list, page, err = svc.List(ctx, models.ReportFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(2), page.Pages)

	list, _, err = svc.List(ctx, models.ReportFilter{Search: " jh4ka "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "JH4KA8260MC000000", list[0].VIN)
}

func TestGetReport(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	saved, _, err := svc.Decode(ctx, "1HGCM82633A004352", "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.VIN, got.VIN)

	got, err = svc.GetByVIN(ctx, " 1hgcm82633a004352")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = svc.GetByVIN(ctx, "JH4KA8260MC000000")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	svc := &DefaultReportService{repo: failingRepo{}, decoder: &fakeDecoder{}, logger: zap.NewNop()}
	_, _, err := svc.Decode(context.Background(), "1HGCM82633A004352", "")
	assert.ErrorIs(t, err, errStore)
	_, err = svc.Get(context.Background(), "r1")
	assert.ErrorIs(t, err, errStore)
}

var errStore = errors.New("server selection timeout")

type failingRepo struct{}

func (failingRepo) Create(context.Context, *models.Report) error { return errStore }
func (failingRepo) GetByID(context.Context, string) (*models.Report, error) {
	return nil, errStore
}
func (failingRepo) FindByVIN(context.Context, string) (*models.Report, error) {
	return nil, errStore
}
func (failingRepo) List(context.Context, models.ReportFilter) ([]models.Report, int64, error) {
	return nil, 0, errStore
}
