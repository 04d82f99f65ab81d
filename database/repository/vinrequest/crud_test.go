package vinRequestRepo

import (
	"context"
	"testing"
	"time"

	"carvistors/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "carvistors.vinrequests"

func toDoc(t *testing.T, r models.VinRequest) bson.D {
	t.Helper()
	raw, err := bson.Marshal(r)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func sample(id, vin string) models.VinRequest {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return models.VinRequest{
		ID:          id,
		VIN:         vin,
		UserEmail:   "jane@example.com",
		Status:      models.StatusPending,
		RequestDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name string
		in   models.VinRequestFilter
		want bson.M
	}{
		{name: "empty", in: models.VinRequestFilter{}, want: bson.M{}},
		{
			name: "status and email",
			in:   models.VinRequestFilter{Status: models.StatusCompleted, UserEmail: " Jane@Example.com "},
			want: bson.M{"status": models.StatusCompleted, "userEmail": "jane@example.com"},
		},
		{name: "blank search is ignored", in: models.VinRequestFilter{Search: "   "}, want: bson.M{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.in))
		})
	}

	t.Run("search escapes regex metacharacters", func(t *testing.T) {
		f := buildFilter(models.VinRequestFilter{Search: " civic.(2019) "})
		or, ok := f["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 5)

		want := primitive.Regex{Pattern: `civic\.\(2019\)`, Options: "i"}
		fields := []string{"vin", "userEmail", "vehicleDetails.vehicle", "vehicleDetails.make", "vehicleDetails.model"}
		for i, field := range fields {
			clause, ok := or[i].(bson.M)
			require.True(t, ok)
			assert.Equal(t, want, clause[field], field)
		}
	})
}

func TestList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pages newest first and counts matches", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				toDoc(mt.T, sample("r3", "1HGCM82633A004352")),
				toDoc(mt.T, sample("r2", "JH4KA8260MC000000")),
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
		)

		list, total, err := repo.List(context.Background(), models.VinRequestFilter{Page: 3, Limit: 5, Search: "honda"})
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, "r3", list[0].ID)
		assert.Equal(mt, int64(12), total)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, int64(5), find.Command.Lookup("limit").Int64())
		assert.Equal(mt, int64(10), find.Command.Lookup("skip").Int64())
		assert.Equal(mt, int32(-1), find.Command.Lookup("sort", "requestDate").Int32())
		_, hasOr := find.Command.Lookup("filter").Document().Lookup("$or").ArrayOK()
		assert.True(mt, hasOr)

		count := mt.GetStartedEvent()
		require.NotNil(mt, count)
		assert.Equal(mt, "aggregate", count.CommandName)
	})

	mt.Run("page below one is the first page", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(0)}}),
		)

		list, total, err := repo.List(context.Background(), models.VinRequestFilter{Page: 0, Limit: 10})
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
		assert.Zero(mt, total)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, int64(0), find.Command.Lookup("skip").Int64())
	})

	mt.Run("no limit reads everything", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, sample("r1", "1HGCM82633A004352"))),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		_, _, err := repo.List(context.Background(), models.VinRequestFilter{UserEmail: "jane@example.com"})
		require.NoError(mt, err)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		_, err = find.Command.LookupErr("limit")
		assert.Error(mt, err)
	})

	mt.Run("find error", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad query",
		}))

		_, _, err := repo.List(context.Background(), models.VinRequestFilter{})
		assert.Error(mt, err)
	})
}

func TestGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, sample("r1", "1HGCM82633A004352"))))

		r, err := repo.GetByID(context.Background(), "r1")
		require.NoError(mt, err)
		require.NotNil(mt, r)
		assert.Equal(mt, "1HGCM82633A004352", r.VIN)
	})

	mt.Run("missing is nil without error", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		r, err := repo.GetByID(context.Background(), "missing")
		require.NoError(mt, err)
		assert.Nil(mt, r)
	})
}

func TestFindByVINAndEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("normalizes the address", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		r, err := repo.FindByVINAndEmail(context.Background(), "1HGCM82633A004352", " Jane@Example.com")
		require.NoError(mt, err)
		assert.Nil(mt, r)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		filter := evt.Command.Lookup("filter").Document()
		assert.Equal(mt, "jane@example.com", filter.Lookup("userEmail").StringValue())
		assert.Equal(mt, "1HGCM82633A004352", filter.Lookup("vin").StringValue())
	})
}

func TestUpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("completion stamps completedDate", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		done := sample("r1", "1HGCM82633A004352")
		done.Status = models.StatusCompleted
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: toDoc(mt.T, done)},
		})

		r, err := repo.UpdateStatus(context.Background(), "r1", models.StatusCompleted)
		require.NoError(mt, err)
		require.NotNil(mt, r)
		assert.Equal(mt, models.StatusCompleted, r.Status)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		_, err = evt.Command.LookupErr("update", "$set", "completedDate")
		assert.NoError(mt, err)
	})

	mt.Run("other statuses leave completedDate alone", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: toDoc(mt.T, sample("r1", "1HGCM82633A004352"))},
		})

		_, err := repo.UpdateStatus(context.Background(), "r1", models.StatusProcessing)
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		_, err = evt.Command.LookupErr("update", "$set", "completedDate")
		assert.Error(mt, err)
	})

	mt.Run("unknown id", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}})

		r, err := repo.UpdateStatus(context.Background(), "missing", models.StatusCompleted)
		require.NoError(mt, err)
		assert.Nil(mt, r)
	})
}

func TestCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and dates", func(mt *mtest.T) {
		repo := &mongoVinRequestRepo{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := &models.VinRequest{VIN: "1HGCM82633A004352", UserEmail: "jane@example.com", Status: models.StatusPending}
		require.NoError(mt, repo.Create(context.Background(), req))
		assert.NotEmpty(mt, req.ID)
		assert.False(mt, req.RequestDate.IsZero())
		assert.Equal(mt, req.CreatedAt, req.UpdatedAt)
	})
}
