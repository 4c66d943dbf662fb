// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/testutil"
)

func newGroupHandler(t *testing.T, f fixture) *GroupHandler {
	t.Helper()
	h := NewGroupHandler(f.repo, testutil.GetTestConfig())
	h.now = fixedClock(t0)
	return h
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	h := newGroupHandler(t, f)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{"valid group", models.CreateGroupRequest{Name: "Book Club"}, http.StatusCreated},
		{"missing name", models.CreateGroupRequest{}, http.StatusBadRequest},
		{"invalid JSON", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("POST", "/api/groups", tt.requestBody, nil), f.outsider.ID)
			w := httptest.NewRecorder()

			h.CreateGroup(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var group models.Group
			testutil.AssertJSON(t, w, &group)
			assert.NotEmpty(t, group.ID)
			assert.Len(t, group.InviteCode, 11)

			m, err := f.repo.GetMembership(req.Context(), group.ID, f.outsider.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, m.Role, "creator becomes admin")
		})
	}
}

func TestGetGroupMembersOnly(t *testing.T) {
	f := newFixture(t)
	h := newGroupHandler(t, f)

	tests := []struct {
		name           string
		userID         string
		groupID        string
		expectedStatus int
	}{
		{"admin", f.admin.ID, f.group.ID, http.StatusOK},
		{"member", f.member.ID, f.group.ID, http.StatusOK},
		{"outsider", f.outsider.ID, f.group.ID, http.StatusNotFound},
		{"missing group", f.admin.ID, "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/groups/"+tt.groupID, nil, nil)
			req.SetPathValue("id", tt.groupID)
			w := httptest.NewRecorder()

			h.GetGroup(w, asUser(req, tt.userID))

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestJoinAndLeaveGroup(t *testing.T) {
	f := newFixture(t)
	h := newGroupHandler(t, f)

	join := func(code, userID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.JoinGroup(w, asUser(testutil.MakeRequest("POST", "/api/groups/join?invite_code="+code, nil, nil), userID))
		return w
	}

	testutil.AssertStatus(t, join("", f.outsider.ID), http.StatusBadRequest)
	testutil.AssertStatus(t, join("wrong-code", f.outsider.ID), http.StatusNotFound)
	testutil.AssertStatus(t, join(f.group.InviteCode, f.outsider.ID), http.StatusOK)
	testutil.AssertStatus(t, join(f.group.InviteCode, f.outsider.ID), http.StatusConflict)

	// Members list now has three entries in join order
	req := testutil.MakeRequest("GET", "/api/groups/"+f.group.ID+"/members", nil, nil)
	req.SetPathValue("id", f.group.ID)
	w := httptest.NewRecorder()
	h.ListMembers(w, asUser(req, f.outsider.ID))
	testutil.AssertStatus(t, w, http.StatusOK)
	var members []models.GroupMember
	testutil.AssertJSON(t, w, &members)
	require.Len(t, members, 3)
	assert.Equal(t, f.admin.ID, members[0].UserID)
	assert.Equal(t, models.RoleAdmin, members[0].Role)

	// Leave, then leaving again is a 404
	leave := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("DELETE", "/api/groups/"+f.group.ID+"/leave", nil, nil)
		req.SetPathValue("id", f.group.ID)
		w := httptest.NewRecorder()
		h.LeaveGroup(w, asUser(req, f.outsider.ID))
		return w
	}
	testutil.AssertStatus(t, leave(), http.StatusNoContent)
	testutil.AssertStatus(t, leave(), http.StatusNotFound)
}

func TestListGroups(t *testing.T) {
	f := newFixture(t)
	h := newGroupHandler(t, f)

	w := httptest.NewRecorder()
	h.ListGroups(w, asUser(testutil.MakeRequest("GET", "/api/groups", nil, nil), f.member.ID))
	testutil.AssertStatus(t, w, http.StatusOK)

	var groups []models.GroupWithRole
	testutil.AssertJSON(t, w, &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, f.group.ID, groups[0].ID)
	assert.Equal(t, models.RoleMember, groups[0].Role)

	w = httptest.NewRecorder()
	h.ListGroups(w, asUser(testutil.MakeRequest("GET", "/api/groups", nil, nil), f.outsider.ID))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "[]", trimmed(w))
}
