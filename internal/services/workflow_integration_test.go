package services_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/config"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/push"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

// recordingSender captures published messages instead of hitting a broker.
type recordingSender struct {
	messages []push.Message
}

func (r *recordingSender) Publish(_ context.Context, msg push.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSender) withKey(key string) []push.Message {
	var out []push.Message
	for _, m := range r.messages {
		if m.Data["key"] == key {
			out = append(out, m)
		}
	}
	return out
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Installation{},
		&models.Ride{},
		&models.Request{},
		&models.RequestCancelled{},
		&models.Team{},
		&models.TeamRequest{},
	))
	for _, table := range []string{
		"requests", "request_cancelleds", "rides",
		"team_requests", "teams", "installations", "users",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		MinSeats:         1,
		MaxSeats:         5,
		DefaultTimeZone:  "UTC",
		RideAlertExpiry:  time.Hour,
		ShareAlertExpiry: 5 * time.Minute,
	}
}

func seedUser(t *testing.T, db *gorm.DB, autoApprove bool) models.User {
	t.Helper()
	user := models.User{
		ID:                  uuid.New(),
		Username:            uuid.NewString(),
		DisplayName:         "Rider",
		Role:                models.RoleGeneralUser,
		AutoApproveRequests: autoApprove,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRide(t *testing.T, db *gorm.DB, owner models.User, seats int) models.Ride {
	t.Helper()
	ride := models.Ride{
		OwnerID:                owner.ID,
		OwnerDisplayName:       owner.DisplayName,
		RideDate:               time.Now().Add(24 * time.Hour),
		OwnerTimeZoneName:      "UTC",
		OriginDescription:      "Home",
		DestinationDescription: "Office",
		SeatsInCar:             seats,
	}
	require.NoError(t, db.Create(&ride).Error)
	return ride
}

func seedInstallation(t *testing.T, db *gorm.DB, user models.User) models.Installation {
	t.Helper()
	inst := models.Installation{
		DeviceToken: uuid.NewString(),
		DeviceType:  "ios",
		UserID:      &user.ID,
	}
	require.NoError(t, db.Create(&inst).Error)
	return inst
}

func TestCreateRequest_RejectsWhenRideFull(t *testing.T) {
	db := setupDB(t)
	svc := services.NewRequestService(db, testConfig(), push.NewDispatcher(db, &recordingSender{}, false))
	ctx := context.Background()

	owner := seedUser(t, db, true)
	ride := seedRide(t, db, owner, 1)
	first := seedUser(t, db, false)
	second := seedUser(t, db, false)

	req1 := models.Request{RideID: ride.ID}
	require.NoError(t, svc.Create(ctx, &req1, first.ID))
	require.True(t, req1.RequestApproved)

	req2 := models.Request{RideID: ride.ID}
	err := svc.Create(ctx, &req2, second.ID)

	var aerr *apperr.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, apperr.CodeRequestNoSeats, aerr.Code)

	var count int64
	require.NoError(t, db.Model(&models.Request{}).Where("ride_id = ?", ride.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApprovePendRoundTrip_OwnershipGuard(t *testing.T) {
	db := setupDB(t)
	svc := services.NewRequestService(db, testConfig(), push.NewDispatcher(db, &recordingSender{}, false))
	ctx := context.Background()

	owner := seedUser(t, db, false)
	stranger := seedUser(t, db, false)
	rider := seedUser(t, db, false)
	ride := seedRide(t, db, owner, 3)

	req := models.Request{RideID: ride.ID}
	require.NoError(t, svc.Create(ctx, &req, rider.ID))
	require.False(t, req.RequestApproved)

	assert.ErrorIs(t, svc.Approve(ctx, req.ID, stranger.ID), services.ErrCannotApprove)

	require.NoError(t, svc.Approve(ctx, req.ID, owner.ID))
	var reloaded models.Request
	require.NoError(t, db.First(&reloaded, "id = ?", req.ID).Error)
	assert.True(t, reloaded.RequestApproved)

	// already approved: a second approve is a conflict
	assert.ErrorIs(t, svc.Approve(ctx, req.ID, owner.ID), services.ErrCannotApprove)
	assert.ErrorIs(t, svc.Pend(ctx, req.ID, stranger.ID), services.ErrCannotPend)

	require.NoError(t, svc.Pend(ctx, req.ID, owner.ID))
	require.NoError(t, db.First(&reloaded, "id = ?", req.ID).Error)
	assert.False(t, reloaded.RequestApproved)
}

// Re-saving an existing request never re-runs the capacity or team checks.
func TestSaveExistingRequest_SkipsRevalidation(t *testing.T) {
	db := setupDB(t)
	svc := services.NewRequestService(db, testConfig(), push.NewDispatcher(db, &recordingSender{}, false))
	ctx := context.Background()

	owner := seedUser(t, db, true)
	ride := seedRide(t, db, owner, 1)
	rider := seedUser(t, db, false)

	req := models.Request{RideID: ride.ID}
	require.NoError(t, svc.Create(ctx, &req, rider.ID))
	require.True(t, req.RequestApproved)

	// the ride is now full; a plain re-save must still go through
	req.RequestOwnerDisplayName = "Renamed Rider"
	require.NoError(t, svc.Save(ctx, &req))

	var reloaded models.Request
	require.NoError(t, db.First(&reloaded, "id = ?", req.ID).Error)
	assert.Equal(t, "Renamed Rider", reloaded.RequestOwnerDisplayName)
}

// The ride-owner reference on a request always comes from the ride row;
// whatever the client submits there is overwritten before it can steer the
// approval preference or the owner notifications.
func TestCreateRequest_OwnerReferenceComesFromRide(t *testing.T) {
	db := setupDB(t)
	svc := services.NewRequestService(db, testConfig(), push.NewDispatcher(db, &recordingSender{}, false))
	ctx := context.Background()

	owner := seedUser(t, db, false)
	autoApprover := seedUser(t, db, true)
	rider := seedUser(t, db, false)
	ride := seedRide(t, db, owner, 3)

	req := models.Request{RideID: ride.ID, RideOwnerID: autoApprover.ID}
	require.NoError(t, svc.Create(ctx, &req, rider.ID))

	assert.Equal(t, owner.ID, req.RideOwnerID)
	assert.False(t, req.RequestApproved)
}

func TestCreateRequest_ManualAddRequiresRideOwner(t *testing.T) {
	db := setupDB(t)
	svc := services.NewRequestService(db, testConfig(), push.NewDispatcher(db, &recordingSender{}, false))
	ctx := context.Background()

	owner := seedUser(t, db, false)
	stranger := seedUser(t, db, false)
	rider := seedUser(t, db, false)
	ride := seedRide(t, db, owner, 2)

	forged := models.Request{
		RideID:         ride.ID,
		RideOwnerID:    stranger.ID,
		RequestOwnerID: stranger.ID,
		ManualAdd:      true,
	}
	assert.ErrorIs(t, svc.Create(ctx, &forged, stranger.ID), services.ErrNotRideOwner)

	var count int64
	require.NoError(t, db.Model(&models.Request{}).Where("ride_id = ?", ride.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	legit := models.Request{RideID: ride.ID, RequestOwnerID: rider.ID, ManualAdd: true}
	require.NoError(t, svc.Create(ctx, &legit, owner.ID))
	assert.True(t, legit.RequestApproved)
	assert.Equal(t, owner.ID, legit.RideOwnerID)
}

func TestDeleteRide_CascadesRequests(t *testing.T) {
	db := setupDB(t)
	sender := &recordingSender{}
	pusher := push.NewDispatcher(db, sender, false)
	cfg := testConfig()
	requests := services.NewRequestService(db, cfg, pusher)
	rides := services.NewRideService(db, cfg, pusher, requests)
	ctx := context.Background()

	owner := seedUser(t, db, true)
	ownerInst := seedInstallation(t, db, owner)
	ride := seedRide(t, db, owner, 3)

	var riderTokens []string
	for i := 0; i < 2; i++ {
		rider := seedUser(t, db, false)
		inst := seedInstallation(t, db, rider)
		riderTokens = append(riderTokens, inst.DeviceToken)
		req := models.Request{RideID: ride.ID}
		require.NoError(t, requests.Create(ctx, &req, rider.ID))
	}

	require.NoError(t, rides.Delete(ctx, ride.ID, owner.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Request{}).Where("ride_id = ?", ride.ID).Count(&remaining).Error)
	assert.EqualValues(t, 0, remaining)

	var archived int64
	require.NoError(t, db.Model(&models.RequestCancelled{}).Where("ride_id = ?", ride.ID).Count(&archived).Error)
	assert.EqualValues(t, 2, archived)

	cancelled := sender.withKey("3")
	require.Len(t, cancelled, 2)
	for _, msg := range cancelled {
		assert.Contains(t, riderTokens, msg.DeviceToken)
		assert.NotEqual(t, ownerInst.DeviceToken, msg.DeviceToken)
	}
}

func TestDeleteRide_NonOwnerRejected(t *testing.T) {
	db := setupDB(t)
	sender := &recordingSender{}
	pusher := push.NewDispatcher(db, sender, false)
	cfg := testConfig()
	requests := services.NewRequestService(db, cfg, pusher)
	rides := services.NewRideService(db, cfg, pusher, requests)
	ctx := context.Background()

	owner := seedUser(t, db, false)
	stranger := seedUser(t, db, false)
	ride := seedRide(t, db, owner, 2)

	assert.ErrorIs(t, rides.Delete(ctx, ride.ID, stranger.ID), services.ErrNotRideOwner)

	var count int64
	require.NoError(t, db.Model(&models.Ride{}).Where("id = ?", ride.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
