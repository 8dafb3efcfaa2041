package sqlite_test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/testdb"
)

// fixture seeds a study database for store tests: overlays, raters, and
// per-ROI screenshots with their overlay rows.
type fixture struct {
	t            *testing.T
	db           *sql.DB
	nextShot     int64
	boundsID     int64
	boundsByROI  map[domain.ROIKey]int64
}

func newFixture(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	return &fixture{
		t:           t,
		db:          db,
		boundsByROI: make(map[domain.ROIKey]int64),
	}
}

func (f *fixture) addRater(id int64, email, passwordHash string) {
	testdb.MustExec(f.t, f.db,
		`INSERT INTO Raters (RaterId, Email, Password, ShowHelp) VALUES (?, ?, ?, 1)`,
		id, email, passwordHash)
}

func (f *fixture) addOverlay(id int64, name string) {
	testdb.MustExec(f.t, f.db,
		`INSERT INTO Overlays (OverlayId, Name) VALUES (?, ?)`, id, name)
	if name == domain.BoundsOverlayName {
		f.boundsID = id
	}
}

// addScreenshot inserts one screenshot for the ROI carrying the given
// overlay in the given color, and returns its id.
func (f *fixture) addScreenshot(roi domain.ROIKey, overlayID int64, color string) int64 {
	f.t.Helper()
	f.nextShot++
	id := f.nextShot
	testdb.MustExec(f.t, f.db,
		`INSERT INTO Screenshots (ScreenshotId, ViewId, FileName, ROI_Id, CenterI, CenterJ, CenterK)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, roi.ViewID, fmt.Sprintf("shot_%d.png", id),
		roi.ROIID, roi.CenterI, roi.CenterJ, roi.CenterK)
	testdb.MustExec(f.t, f.db,
		`INSERT INTO ScreenshotOverlays (ScreenshotId, OverlayId, Color) VALUES (?, ?, ?)`,
		id, overlayID, color)
	if overlayID == f.boundsID {
		f.boundsByROI[roi] = id
	}
	return id
}

// addBounds inserts the ROI's bounds screenshot and returns its id.
func (f *fixture) addBounds(roi domain.ROIKey) int64 {
	f.t.Helper()
	if f.boundsID == 0 {
		f.t.Fatal("bounds overlay not seeded")
	}
	return f.addScreenshot(roi, f.boundsID, "#ffffff")
}

func roi(id int64) domain.ROIKey {
	return domain.ROIKey{ROIID: id, CenterI: id * 10, CenterJ: id * 11, CenterK: id * 12, ViewID: "axial"}
}

func mustOverlaySet(t *testing.T, ids ...int64) domain.OverlaySet {
	t.Helper()
	set := domain.NewOverlaySet(ids...)
	if err := set.Validate(); err != nil {
		t.Fatalf("overlay set %v: %v", ids, err)
	}
	return set
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}
