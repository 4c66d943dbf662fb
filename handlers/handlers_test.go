// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/store"
	"github.com/danielhkuo/forecast-club/testutil"
)

var t0 = testutil.T0

// asUser attaches an authenticated user to a request the way RequireUser does
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// fixedClock returns a clock frozen at t
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fixture is a group with an admin, a plain member and an outsider
type fixture struct {
	repo     *store.SQLStore
	admin    models.User
	member   models.User
	outsider models.User
	group    models.Group
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	repo := testutil.SetupTestStore(t)
	f := fixture{
		repo:     repo,
		admin:    testutil.CreateTestUser(t, repo, "admin@example.com"),
		member:   testutil.CreateTestUser(t, repo, "member@example.com"),
		outsider: testutil.CreateTestUser(t, repo, "outsider@example.com"),
	}
	f.group = testutil.CreateTestGroup(t, repo, f.admin.ID, "Forecasters")
	testutil.AddTestMember(t, repo, f.group.ID, f.member.ID, models.RoleMember)
	return f
}

// trimmed returns the response body without the encoder's trailing newline
func trimmed(w *httptest.ResponseRecorder) string {
	return strings.TrimSpace(w.Body.String())
}
