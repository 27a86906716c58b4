package store

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), DBFile))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testShot(t *testing.T, label string, settings optics.CameraSettings) model.Shot {
	t.Helper()
	dof, err := optics.DOF(settings)
	if err != nil {
		t.Fatalf("DOF: %v", err)
	}
	return model.Shot{Label: label, Camera: settings, DOF: dof}
}

func TestSaveAndListShots(t *testing.T) {
	db := openTestDB(t)

	shot := testShot(t, "close-up", optics.CameraSettings{
		FocalLengthMm:  85,
		Aperture:       1.8,
		FocusDistanceM: 1.5,
		SensorType:     optics.SensorFullFrame,
	})
	shot.Notes = "hold the rack until she turns"

	if err := db.SaveShot(&shot); err != nil {
		t.Fatalf("SaveShot: %v", err)
	}
	if shot.ID == 0 {
		t.Error("SaveShot should assign an ID")
	}

	shots, err := db.ListShots(0)
	if err != nil {
		t.Fatalf("ListShots: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("listed %d shots, want 1", len(shots))
	}

	got := shots[0]
	if got.Label != "close-up" || got.Notes != shot.Notes {
		t.Errorf("got %+v, want label/notes preserved", got)
	}
	if got.Camera != shot.Camera {
		t.Errorf("camera = %+v, want %+v", got.Camera, shot.Camera)
	}
	if math.Abs(got.DOF.NearLimitM-shot.DOF.NearLimitM) > 1e-9 {
		t.Errorf("near limit = %v, want %v", got.DOF.NearLimitM, shot.DOF.NearLimitM)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set on save")
	}
}

func TestUnboundedFarLimitRoundTrips(t *testing.T) {
	db := openTestDB(t)

	// Focused past hyperfocal: far limit is +Inf and must survive storage.
	shot := testShot(t, "landscape", optics.CameraSettings{
		FocalLengthMm:  24,
		Aperture:       11,
		FocusDistanceM: 100,
		SensorType:     optics.SensorFullFrame,
	})
	if !shot.DOF.FarIsInfinite() {
		t.Fatalf("expected unbounded far limit, got %v", shot.DOF.FarLimitM)
	}

	if err := db.SaveShot(&shot); err != nil {
		t.Fatalf("SaveShot: %v", err)
	}
	shots, err := db.ListShots(0)
	if err != nil {
		t.Fatalf("ListShots: %v", err)
	}
	if !shots[0].DOF.FarIsInfinite() {
		t.Errorf("far limit after round trip = %v, want +Inf", shots[0].DOF.FarLimitM)
	}
	if !math.IsInf(shots[0].DOF.TotalDOFM, 1) {
		t.Errorf("total DOF after round trip = %v, want +Inf", shots[0].DOF.TotalDOFM)
	}
}

func TestListShotsLimitAndOrder(t *testing.T) {
	db := openTestDB(t)

	labels := []string{"first", "second", "third"}
	for _, label := range labels {
		shot := testShot(t, label, optics.CameraSettings{
			FocalLengthMm:  50,
			Aperture:       2.8,
			FocusDistanceM: 2,
			SensorType:     optics.SensorFullFrame,
		})
		if err := db.SaveShot(&shot); err != nil {
			t.Fatalf("SaveShot %s: %v", label, err)
		}
	}

	shots, err := db.ListShots(2)
	if err != nil {
		t.Fatalf("ListShots: %v", err)
	}
	if len(shots) != 2 {
		t.Fatalf("listed %d shots, want 2", len(shots))
	}
	if shots[0].Label != "third" {
		t.Errorf("newest first: got %q, want %q", shots[0].Label, "third")
	}
}

func TestDeleteShot(t *testing.T) {
	db := openTestDB(t)

	shot := testShot(t, "discard", optics.CameraSettings{
		FocalLengthMm:  50,
		Aperture:       2.8,
		FocusDistanceM: 2,
		SensorType:     optics.SensorFullFrame,
	})
	if err := db.SaveShot(&shot); err != nil {
		t.Fatalf("SaveShot: %v", err)
	}

	if err := db.DeleteShot(shot.ID); err != nil {
		t.Fatalf("DeleteShot: %v", err)
	}
	n, err := db.CountShots()
	if err != nil {
		t.Fatalf("CountShots: %v", err)
	}
	if n != 0 {
		t.Errorf("count after delete = %d, want 0", n)
	}

	if err := db.DeleteShot(shot.ID); err == nil {
		t.Error("deleting a missing shot should error")
	}
}

func TestSaveShotRejectsInvalid(t *testing.T) {
	db := openTestDB(t)

	shot := model.Shot{Label: ""}
	if err := db.SaveShot(&shot); err == nil {
		t.Error("expected validation error for empty label")
	}
}
