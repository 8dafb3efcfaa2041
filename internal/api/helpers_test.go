package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/overlaylab/rater-api/internal/api"
	"github.com/overlaylab/rater-api/internal/api/shared"
	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/platform/sqlite"
	"github.com/overlaylab/rater-api/internal/service/session"
	"github.com/overlaylab/rater-api/internal/testdb"
)

const (
	testRaterID  int64 = 1
	testEmail          = "rater@example.com"
	testPassword       = "correct-password"
)

// seedStudy builds a small study: one rater, overlays 2 and 3, two ROIs
// fully covered by both plus bounds, one evaluation task over {2, 3}, and
// one comparison task for the same pair.
func seedStudy(t *testing.T, db *sql.DB) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	testdb.MustExec(t, db,
		`INSERT INTO Raters (RaterId, Email, Password, ShowHelp) VALUES (1, ?, ?, 1)`,
		testEmail, string(hash))

	testdb.MustExec(t, db, `INSERT INTO Overlays (OverlayId, Name) VALUES (2, 'Model A'), (3, 'Model B'), (9, ?)`,
		domain.BoundsOverlayName)

	shot := func(id, roiID, overlayID int64, color string) {
		testdb.MustExec(t, db,
			`INSERT INTO Screenshots (ScreenshotId, ViewId, FileName, ROI_Id, CenterI, CenterJ, CenterK)
			 VALUES (?, 'axial', ?, ?, ?, ?, ?)`,
			id, fmt.Sprintf("shot_%d.png", id), roiID, roiID*10, roiID*11, roiID*12)
		testdb.MustExec(t, db,
			`INSERT INTO ScreenshotOverlays (ScreenshotId, OverlayId, Color) VALUES (?, ?, ?)`,
			id, overlayID, color)
	}
	shot(11, 1, 2, "#ff0000")
	shot(12, 1, 3, "#00ff00")
	shot(19, 1, 9, "#ffffff")
	shot(21, 2, 2, "#ff0000")
	shot(22, 2, 3, "#00ff00")
	shot(29, 2, 9, "#ffffff")

	testdb.MustExec(t, db, `INSERT INTO EvaluationTasks (EvaluationTaskId, OverlayId) VALUES (1, 2), (1, 3)`)
	testdb.MustExec(t, db, `INSERT INTO ComparisonTasks (ComparisonTaskId, OverlayId1, OverlayId2) VALUES (1, 2, 3)`)
	testdb.MustExec(t, db, `INSERT INTO Scores (Value, Label, Color, Description, Keys) VALUES
		(1, 'Poor', '#ff0000', '', '49'), (2, 'Good', '#00ff00', '', '50')`)
	testdb.MustExec(t, db, `INSERT INTO Contacts (Name, Email, Subject) VALUES ('Study Team', 'team@example.com', 'study')`)
}

// testProvider is a BackendProvider over a fixed backend. Switch only
// validates the path and rebinds the metadata; the handler contract is
// what these tests exercise, not the sqlite manager.
type testProvider struct {
	backend *api.Backend
}

func (p *testProvider) Current() (*api.Backend, error) {
	if p.backend == nil {
		return nil, api.ErrNoDatabaseOpen
	}
	return p.backend, nil
}

func (p *testProvider) Switch(_ context.Context, path string) (*api.Backend, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database file %q: %w", path, err)
	}
	p.backend.Path = path
	p.backend.ImageBase = filepath.Dir(path)
	return p.backend, nil
}

// newTestProvider builds a provider over a freshly seeded in-memory study.
func newTestProvider(t *testing.T) *testProvider {
	t.Helper()

	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)

	sessions := session.NewManager(
		db,
		sqlite.NewCatalogStore(db, nil),
		sqlite.NewItemStore(db, nil),
		sqlite.NewDecisionStore(db, nil),
		rand.New(rand.NewSource(1)),
		nil,
	)

	return &testProvider{backend: &api.Backend{
		Raters:    sqlite.NewRaterStore(db, nil),
		Sessions:  sessions,
		Path:      "/studies/demo/study.db",
		ImageBase: "/studies/demo",
	}}
}

// authedRequest builds a request with the rater id placed in the context
// the way the auth middleware does.
func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), shared.RaterIDContextKey, testRaterID)
	return req.WithContext(ctx)
}

// withPathParam attaches a chi route parameter to the request.
func withPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes the recorded JSON response into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}
